package repositories

import (
	"foodfusion/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order and the owner's back-reference atomically.
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	// GetByUserID returns the user's orders, newest first.
	GetByUserID(userID string) ([]models.Order, error)
	// GetActive returns all orders that have not reached a terminal status.
	GetActive() ([]models.Order, error)
	// AdvanceStatus moves an order from one status to another, guarded on
	// the order still being in the from status (optimistic check so a
	// concurrent cancel and a scheduler tick cannot both win). markPaid
	// additionally sets the payment status to paid in the same write.
	// Returns ErrStale when the guard fails.
	AdvanceStatus(id string, from, to models.OrderStatus, markPaid bool) error
	SetRating(id string, rating int) error
	UpdatePaymentStatus(id string, status models.PaymentStatus) error
	// AdvancePaymentStatus moves the payment status from one value to
	// another, guarded on the order still carrying the from value, so two
	// concurrent payment attempts cannot both capture the same order.
	// Returns ErrStale when the guard fails.
	AdvancePaymentStatus(id string, from, to models.PaymentStatus) error
	// Delete removes the order and the owner's back-reference atomically.
	Delete(id string) error
}
