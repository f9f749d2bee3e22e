package services

import (
	"fmt"
	"log"

	"foodfusion/internal/models"
	"foodfusion/internal/repositories"
)

// UserService handles profile, favorites, and order-history business logic.
type UserService struct {
	userRepo       repositories.UserRepository
	restaurantRepo repositories.RestaurantRepository
	orderRepo      repositories.OrderRepository
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repositories.UserRepository,
	restaurantRepo repositories.RestaurantRepository,
	orderRepo repositories.OrderRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		orderRepo:      orderRepo,
	}
}

// GetProfile retrieves a user by id.
func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, nil
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateProfile applies the provided fields to the user's profile. Email
// and password are not updatable through this path.
func (s *UserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// AddFavorite marks a restaurant as one of the user's favorites.
func (s *UserService) AddFavorite(userID, restaurantID string) error {
	if _, err := s.restaurantRepo.GetByID(restaurantID); err != nil {
		return fmt.Errorf("restaurant %s: %w", restaurantID, ErrNotFound)
	}
	if err := s.userRepo.AddFavorite(userID, restaurantID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unmarks a favorite restaurant.
func (s *UserService) RemoveFavorite(userID, restaurantID string) error {
	if err := s.userRepo.RemoveFavorite(userID, restaurantID); err != nil {
		return fmt.Errorf("favorite %s: %w", restaurantID, ErrNotFound)
	}
	return nil
}

// IsFavorite reports whether the restaurant is in the user's favorites.
func (s *UserService) IsFavorite(userID, restaurantID string) (bool, error) {
	return s.userRepo.IsFavorite(userID, restaurantID)
}

// GetFavorites resolves the user's favorite restaurant ids into full
// restaurant records. A favorite pointing at a since-removed restaurant is
// skipped.
func (s *UserService) GetFavorites(userID string) ([]models.Restaurant, error) {
	ids, err := s.userRepo.GetFavoriteIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}

	restaurants := make([]models.Restaurant, 0, len(ids))
	for _, id := range ids {
		restaurant, err := s.restaurantRepo.GetByID(id)
		if err != nil {
			log.Printf("Favorite restaurant %s no longer exists, skipping", id)
			continue
		}
		restaurants = append(restaurants, *restaurant)
	}
	return restaurants, nil
}

// GetOrderHistory resolves the user's order-history back-references into
// full orders, newest first. A dangling reference is skipped and logged.
func (s *UserService) GetOrderHistory(userID string) ([]models.Order, error) {
	ids, err := s.userRepo.GetOrderIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.orderRepo.GetByID(id)
		if err != nil {
			log.Printf("Order %s referenced by user %s history is missing, skipping", id, userID)
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}
