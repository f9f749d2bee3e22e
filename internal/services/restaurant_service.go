package services

import (
	"fmt"

	"foodfusion/internal/models"
	"foodfusion/internal/repositories"
)

// RestaurantService handles business logic related to restaurants, menus,
// and reviews.
type RestaurantService struct {
	repo repositories.RestaurantRepository
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(repo repositories.RestaurantRepository) *RestaurantService {
	return &RestaurantService{
		repo: repo,
	}
}

// GetRestaurants retrieves active restaurants, optionally filtered.
func (s *RestaurantService) GetRestaurants(filter repositories.RestaurantFilter) ([]models.Restaurant, error) {
	return s.repo.GetAll(filter)
}

// GetRestaurantByID retrieves a single restaurant with menu and reviews.
func (s *RestaurantService) GetRestaurantByID(id string) (*models.Restaurant, error) {
	restaurant, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
	}
	return restaurant, nil
}

// GetFeatured retrieves the restaurants flagged for the home screen.
func (s *RestaurantService) GetFeatured() ([]models.Restaurant, error) {
	return s.repo.GetFeatured()
}

// CreateRestaurant creates a new restaurant with its menu.
func (s *RestaurantService) CreateRestaurant(restaurant *models.Restaurant) error {
	if restaurant.Name == "" || len(restaurant.Cuisine) == 0 {
		return fmt.Errorf("%w: restaurant requires a name and at least one cuisine", ErrInvalidInput)
	}
	restaurant.IsActive = true
	return s.repo.Create(restaurant)
}

// GetMenuItem retrieves a single menu item by id.
func (s *RestaurantService) GetMenuItem(itemID string) (*models.MenuItem, error) {
	item, err := s.repo.GetMenuItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("menu item %s: %w", itemID, ErrNotFound)
	}
	return item, nil
}

// AddMenuItem adds a dish to an existing restaurant's menu.
func (s *RestaurantService) AddMenuItem(restaurantID string, item *models.MenuItem) error {
	if item.Name == "" || item.Price <= 0 {
		return fmt.Errorf("%w: menu item requires a name and a positive price", ErrInvalidInput)
	}
	if _, err := s.repo.GetByID(restaurantID); err != nil {
		return fmt.Errorf("restaurant %s: %w", restaurantID, ErrNotFound)
	}
	item.RestaurantID = restaurantID
	return s.repo.CreateMenuItem(item)
}

// AddReview appends a user review and recomputes the aggregate rating.
func (s *RestaurantService) AddReview(restaurantID, userID string, rating int, comment string) (*models.Restaurant, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	restaurant, err := s.repo.GetByID(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", restaurantID, ErrNotFound)
	}

	// Recompute the aggregate including the new review.
	sum := float64(rating)
	for _, review := range restaurant.Reviews {
		sum += float64(review.Rating)
	}
	newRating := sum / float64(len(restaurant.Reviews)+1)

	review := &models.Review{
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.repo.AddReview(restaurantID, review, newRating); err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	return s.repo.GetByID(restaurantID)
}
