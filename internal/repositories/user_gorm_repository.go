package repositories

import (
	"errors"
	"fmt"

	"foodfusion/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Update saves the user's mutable profile fields.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

// AddFavorite marks a restaurant as a favorite. Adding an existing favorite
// is a no-op.
func (r *GORMUserRepository) AddFavorite(userID, restaurantID string) error {
	fav := models.Favorite{UserID: userID, RestaurantID: restaurantID}
	err := r.db.Where(&fav).FirstOrCreate(&fav).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unmarks a favorite restaurant.
func (r *GORMUserRepository) RemoveFavorite(userID, restaurantID string) error {
	res := r.db.Delete(&models.Favorite{}, "user_id = ? AND restaurant_id = ?", userID, restaurantID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("favorite %s for user %s: %w", restaurantID, userID, ErrNotFound)
	}
	return nil
}

// GetFavoriteIDs lists the restaurant ids the user has marked favorite.
func (r *GORMUserRepository) GetFavoriteIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("restaurant_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites for user %s: %w", userID, err)
	}
	return ids, nil
}

// IsFavorite reports whether the user has marked the restaurant favorite.
func (r *GORMUserRepository) IsFavorite(userID, restaurantID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// GetOrderIDs lists the order ids in the user's history, newest first.
func (r *GORMUserRepository) GetOrderIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.OrderRef{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order history for user %s: %w", userID, err)
	}
	return ids, nil
}
