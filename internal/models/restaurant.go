package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restaurant represents a restaurant customers order from.
type Restaurant struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description" validate:"required,max=1000"`
	Cuisine     []string        `json:"cuisine" gorm:"serializer:json" validate:"required,min=1"`
	Address     DeliveryAddress `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Phone       string          `json:"phone" validate:"required,max=20"`
	Email       string          `json:"email" validate:"required,email"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Rating      float64         `json:"rating" gorm:"default:0"` // Aggregate over reviews, 0 when unreviewed
	Reviews     []Review        `json:"reviews" gorm:"foreignKey:RestaurantID"`
	Menu        []MenuItem      `json:"menu" gorm:"foreignKey:RestaurantID"`
	IsVeg       bool            `json:"is_veg"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// Review is a customer review of a restaurant.
type Review struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	RestaurantID string    `json:"restaurant_id" gorm:"index;type:varchar(36)"`
	UserID       string    `json:"user_id" gorm:"type:varchar(36)"`
	Rating       int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment      string    `json:"comment" validate:"omitempty,max=1000"`
	CreatedAt    time.Time `json:"created_at"`
}
