package repositories

import (
	"fmt"
	"strings"
	"sync"

	"foodfusion/internal/models"

	"github.com/google/uuid"
)

// MockRestaurantRepository is an in-memory implementation of
// RestaurantRepository.
type MockRestaurantRepository struct {
	restaurants map[string]models.Restaurant
	menuItems   map[string]models.MenuItem
	mu          sync.RWMutex
}

// NewMockRestaurantRepository creates a new instance of MockRestaurantRepository.
func NewMockRestaurantRepository() *MockRestaurantRepository {
	return &MockRestaurantRepository{
		restaurants: make(map[string]models.Restaurant),
		menuItems:   make(map[string]models.MenuItem),
	}
}

// GetAll returns restaurants matching the filter.
func (r *MockRestaurantRepository) GetAll(filter RestaurantFilter) ([]models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Restaurant
	for _, restaurant := range r.restaurants {
		if !restaurant.IsActive {
			continue
		}
		if filter.VegOnly && !restaurant.IsVeg {
			continue
		}
		if filter.Search != "" && !matchesSearch(restaurant, filter.Search) {
			continue
		}
		result = append(result, restaurant)
	}
	return result, nil
}

func matchesSearch(restaurant models.Restaurant, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(restaurant.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(restaurant.Address.City), term) {
		return true
	}
	for _, cuisine := range restaurant.Cuisine {
		if strings.Contains(strings.ToLower(cuisine), term) {
			return true
		}
	}
	return false
}

// GetByID returns a restaurant by its ID.
func (r *MockRestaurantRepository) GetByID(id string) (*models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurant, ok := r.restaurants[id]
	if !ok {
		return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
	}
	return &restaurant, nil
}

// GetFeatured returns the restaurants flagged for the home screen.
func (r *MockRestaurantRepository) GetFeatured() ([]models.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Restaurant
	for _, restaurant := range r.restaurants {
		if restaurant.Featured && restaurant.IsActive {
			result = append(result, restaurant)
		}
	}
	return result, nil
}

// Create adds a new restaurant and registers its menu items.
func (r *MockRestaurantRepository) Create(restaurant *models.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	for i := range restaurant.Menu {
		if restaurant.Menu[i].ID == "" {
			restaurant.Menu[i].ID = uuid.New().String()
		}
		restaurant.Menu[i].RestaurantID = restaurant.ID
		r.menuItems[restaurant.Menu[i].ID] = restaurant.Menu[i]
	}
	r.restaurants[restaurant.ID] = *restaurant
	return nil
}

// AddReview appends a review and updates the aggregate rating.
func (r *MockRestaurantRepository) AddReview(restaurantID string, review *models.Review, newRating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	restaurant, ok := r.restaurants[restaurantID]
	if !ok {
		return fmt.Errorf("restaurant %s: %w", restaurantID, ErrNotFound)
	}
	review.RestaurantID = restaurantID
	restaurant.Reviews = append(restaurant.Reviews, *review)
	restaurant.Rating = newRating
	r.restaurants[restaurantID] = restaurant
	return nil
}

// GetMenuItem returns one menu item by its ID.
func (r *MockRestaurantRepository) GetMenuItem(itemID string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.menuItems[itemID]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", itemID, ErrNotFound)
	}
	return &item, nil
}

// CreateMenuItem adds a dish to a restaurant's menu.
func (r *MockRestaurantRepository) CreateMenuItem(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.menuItems[item.ID] = *item
	restaurant, ok := r.restaurants[item.RestaurantID]
	if ok {
		restaurant.Menu = append(restaurant.Menu, *item)
		r.restaurants[item.RestaurantID] = restaurant
	}
	return nil
}
