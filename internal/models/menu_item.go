package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem represents one dish on a restaurant's menu. Its live name and
// price are consulted only at order-creation time for snapshotting.
type MenuItem struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	RestaurantID string    `json:"restaurant_id" gorm:"index;type:varchar(36)" validate:"required"`
	Name         string    `json:"name" validate:"required,min=2,max=100"`
	Description  string    `json:"description" validate:"omitempty,max=500"`
	Price        float64   `json:"price" validate:"required,gt=0"`
	Category     string    `json:"category" validate:"omitempty,max=50"`
	IsVeg        bool      `json:"is_veg"`
	Image        string    `json:"image" validate:"omitempty,url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
