package repositories

import (
	"errors"
	"fmt"

	"foodfusion/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRestaurantRepository is a GORM implementation of RestaurantRepository.
type GORMRestaurantRepository struct {
	db *gorm.DB
}

// NewGORMRestaurantRepository creates a new instance of GORMRestaurantRepository.
func NewGORMRestaurantRepository(db *gorm.DB) *GORMRestaurantRepository {
	return &GORMRestaurantRepository{
		db: db,
	}
}

// GetAll retrieves active restaurants, optionally filtered by a search term
// and a veg-only flag. The menu is preloaded so listings can show dishes.
func (r *GORMRestaurantRepository) GetAll(filter RestaurantFilter) ([]models.Restaurant, error) {
	q := r.db.Preload("Menu").Where("is_active = ?", true)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		// Cuisine is stored as a JSON array; a LIKE on the serialized
		// column is good enough for the simple search this API offers.
		q = q.Where("name LIKE ? OR cuisine LIKE ? OR address_city LIKE ?", like, like, like)
	}
	if filter.VegOnly {
		q = q.Where("is_veg = ?", true)
	}

	var restaurants []models.Restaurant
	if err := q.Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to get restaurants: %w", err)
	}
	return restaurants, nil
}

// GetByID retrieves a single restaurant with its menu and reviews.
func (r *GORMRestaurantRepository) GetByID(id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.Preload("Menu").Preload("Reviews").First(&restaurant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get restaurant by ID %s: %w", id, err)
	}
	return &restaurant, nil
}

// GetFeatured retrieves the restaurants flagged for the home screen.
func (r *GORMRestaurantRepository) GetFeatured() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Preload("Menu").
		Where("featured = ? AND is_active = ?", true, true).
		Find(&restaurants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get featured restaurants: %w", err)
	}
	return restaurants, nil
}

// Create creates a new restaurant, including any menu items attached to it.
func (r *GORMRestaurantRepository) Create(restaurant *models.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	for i := range restaurant.Menu {
		if restaurant.Menu[i].ID == "" {
			restaurant.Menu[i].ID = uuid.New().String()
		}
		restaurant.Menu[i].RestaurantID = restaurant.ID
	}
	if err := r.db.Create(restaurant).Error; err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// AddReview appends a review and updates the aggregate rating atomically.
func (r *GORMRestaurantRepository) AddReview(restaurantID string, review *models.Review, newRating float64) error {
	review.RestaurantID = restaurantID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Restaurant{}).
			Where("id = ?", restaurantID).
			Update("rating", newRating).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add review to restaurant %s: %w", restaurantID, err)
	}
	return nil
}

// GetMenuItem retrieves one menu item by its ID.
func (r *GORMRestaurantRepository) GetMenuItem(itemID string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get menu item %s: %w", itemID, err)
	}
	return &item, nil
}

// CreateMenuItem adds a dish to a restaurant's menu.
func (r *GORMRestaurantRepository) CreateMenuItem(item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}
