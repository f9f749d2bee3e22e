package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records one simulated payment attempt for an order. The gateway
// is not real: payments complete immediately when created.
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string        `json:"order_id" gorm:"index;type:varchar(36)"`
	UserID        string        `json:"user_id" gorm:"index;type:varchar(36)"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `json:"method" gorm:"type:varchar(10)"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20)"`
	TransactionID string        `json:"transaction_id" gorm:"uniqueIndex;type:varchar(64)"`
	RefundReason  string        `json:"refund_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
