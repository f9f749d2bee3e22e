package repositories

import "foodfusion/internal/models"

// UserRepository defines the interface for user data access, including
// favorites and the order-history back-references.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error

	AddFavorite(userID, restaurantID string) error
	RemoveFavorite(userID, restaurantID string) error
	GetFavoriteIDs(userID string) ([]string, error)
	IsFavorite(userID, restaurantID string) (bool, error)

	// GetOrderIDs returns the order ids referenced by the user's history,
	// newest first.
	GetOrderIDs(userID string) ([]string, error)
}
