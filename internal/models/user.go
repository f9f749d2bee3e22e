package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a customer of the platform.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Phone     string    `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	Address   string    `json:"address" validate:"omitempty,max=255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Favorite marks a restaurant as a favorite of a user.
type Favorite struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	UserID       string `json:"user_id" gorm:"uniqueIndex:idx_user_restaurant;type:varchar(36)"`
	RestaurantID string `json:"restaurant_id" gorm:"uniqueIndex:idx_user_restaurant;type:varchar(36)"`
}

// OrderRef is the ownership back-reference from a user to one of their
// orders. It mirrors the order store, it is not a second source of truth:
// created together with the order and removed when the order is deleted.
type OrderRef struct {
	ID      uint   `json:"-" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"index;type:varchar(36)"`
	OrderID string `json:"order_id" gorm:"uniqueIndex;type:varchar(36)"`
}
