package handlers

import (
	"log"

	"foodfusion/internal/cart"
	"foodfusion/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the device-scoped cart. The cart
// identifies its owner by the X-Device-ID header, not by login, so guests
// can fill a cart before registering.
type CartHandler struct {
	store       *cart.Store
	restaurants *services.RestaurantService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store *cart.Store, restaurants *services.RestaurantService) *CartHandler {
	return &CartHandler{
		store:       store,
		restaurants: restaurants,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:itemId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:itemId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// deviceID extracts the cart owner from the X-Device-ID header.
func deviceID(c *fiber.Ctx) string {
	return c.Get("X-Device-ID")
}

// cartJSON is the response shape for every cart endpoint: the lines plus
// the derived subtotal and unit count.
func cartJSON(c *fiber.Ctx, crt *cart.Cart) error {
	return c.JSON(fiber.Map{
		"restaurant_id": crt.RestaurantID(),
		"lines":         crt.Lines,
		"subtotal":      crt.Subtotal(),
		"count":         crt.Count(),
	})
}

// load fetches the device's cart, writing the error response itself on
// failure.
func (h *CartHandler) load(c *fiber.Ctx) (*cart.Cart, string, bool) {
	device := deviceID(c)
	if device == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing X-Device-ID header",
		})
		return nil, "", false
	}
	crt, err := h.store.Load(c.Context(), device)
	if err != nil {
		_ = respondError(c, "Could not load cart", err)
		return nil, "", false
	}
	return crt, device, true
}

// HandleGetCart returns the device's current cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	crt, _, ok := h.load(c)
	if !ok {
		return nil
	}
	return cartJSON(c, crt)
}

// HandleAddItem looks up the menu item and adds it to the cart. The
// server-side price is what goes into the line, whatever the client thinks
// the item costs.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var body struct {
		ItemID   string `json:"item_id"`
		Quantity int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing add cart item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	crt, device, ok := h.load(c)
	if !ok {
		return nil
	}

	item, err := h.restaurants.GetMenuItem(body.ItemID)
	if err != nil {
		return respondError(c, "Could not add item to cart", err)
	}
	if err := crt.Add(*item, body.Quantity); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	if err := h.store.Save(c.Context(), device, crt); err != nil {
		return respondError(c, "Could not save cart", err)
	}
	return cartJSON(c, crt)
}

// HandleUpdateQuantity sets a line's quantity. A quantity below 1 removes
// the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing cart quantity request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	crt, device, ok := h.load(c)
	if !ok {
		return nil
	}
	if err := crt.UpdateQuantity(c.Params("itemId"), body.Quantity); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}
	if err := h.store.Save(c.Context(), device, crt); err != nil {
		return respondError(c, "Could not save cart", err)
	}
	return cartJSON(c, crt)
}

// HandleRemoveItem deletes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	crt, device, ok := h.load(c)
	if !ok {
		return nil
	}
	if err := crt.Remove(c.Params("itemId")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	if err := h.store.Save(c.Context(), device, crt); err != nil {
		return respondError(c, "Could not save cart", err)
	}
	return cartJSON(c, crt)
}

// HandleClearCart empties the device's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	_, device, ok := h.load(c)
	if !ok {
		return nil
	}
	if err := h.store.Delete(c.Context(), device); err != nil {
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
