package cart

import (
	"errors"
	"fmt"

	"foodfusion/internal/models"
)

// Typed errors so callers can reject malformed cart mutations explicitly
// instead of silently dropping them.
var (
	ErrMissingItemID     = errors.New("cart item is missing an id")
	ErrInvalidQuantity   = errors.New("cart quantity must be at least 1")
	ErrMixedRestaurants  = errors.New("cart can only hold items from one restaurant")
	ErrItemNotFound      = errors.New("item not in cart")
	ErrMissingRestaurant = errors.New("cart item is missing a restaurant id")
)

// Line is one selected menu item inside a cart.
type Line struct {
	ItemID       string  `json:"item_id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	Image        string  `json:"image,omitempty"`
}

// Cart accumulates selected menu items into a working order draft before
// submission. It is scoped to one restaurant at a time and preserves
// insertion order. The zero value is an empty cart ready to use.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add puts quantity units of item into the cart. If a line with the same
// item id already exists its quantity is incremented, otherwise a new line
// is appended. Items from a different restaurant than the cart's current
// one are rejected.
func (c *Cart) Add(item models.MenuItem, quantity int) error {
	if item.ID == "" {
		return ErrMissingItemID
	}
	if item.RestaurantID == "" {
		return ErrMissingRestaurant
	}
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if len(c.Lines) > 0 && c.Lines[0].RestaurantID != item.RestaurantID {
		return ErrMixedRestaurants
	}

	for i := range c.Lines {
		if c.Lines[i].ItemID == item.ID {
			c.Lines[i].Quantity += quantity
			return nil
		}
	}

	c.Lines = append(c.Lines, Line{
		ItemID:       item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		UnitPrice:    item.Price,
		Quantity:     quantity,
		Image:        item.Image,
	})
	return nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity below 1
// removes the line.
func (c *Cart) UpdateQuantity(itemID string, quantity int) error {
	if itemID == "" {
		return ErrMissingItemID
	}
	if quantity < 1 {
		return c.Remove(itemID)
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

// Remove deletes the line with the given item id.
func (c *Cart) Remove(itemID string) error {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

// Clear empties the cart. Called after a successful order placement.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Subtotal is the sum of unit price times quantity over all lines. It does
// not include the delivery fee; that is applied once at checkout.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// RestaurantID returns the restaurant the cart is scoped to, or "" when the
// cart is empty.
func (c *Cart) RestaurantID() string {
	if len(c.Lines) == 0 {
		return ""
	}
	return c.Lines[0].RestaurantID
}

// OrderItems converts the cart lines into order line-item snapshots.
func (c *Cart) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, models.OrderItem{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}
