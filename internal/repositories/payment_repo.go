package repositories

import "foodfusion/internal/models"

// PaymentRepository defines the interface for payment record access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByOrderID(orderID string) (*models.Payment, error)
	Update(payment *models.Payment) error
}
