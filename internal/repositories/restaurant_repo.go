package repositories

import "foodfusion/internal/models"

// RestaurantFilter narrows a restaurant listing.
type RestaurantFilter struct {
	Search  string // matches name, cuisine, or city
	VegOnly bool
}

// RestaurantRepository defines the interface for restaurant and menu data
// access.
type RestaurantRepository interface {
	GetAll(filter RestaurantFilter) ([]models.Restaurant, error)
	GetByID(id string) (*models.Restaurant, error)
	GetFeatured() ([]models.Restaurant, error)
	Create(restaurant *models.Restaurant) error
	// AddReview appends a review and persists the recomputed aggregate
	// rating in the same transaction.
	AddReview(restaurantID string, review *models.Review, newRating float64) error

	GetMenuItem(itemID string) (*models.MenuItem, error)
	CreateMenuItem(item *models.MenuItem) error
}
