package handlers

import (
	"log"

	"foodfusion/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profiles, favorites, and order
// history. All routes require authentication.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/profile", h.HandleGetProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
	userRoutes.Get("/favorites", h.HandleGetFavorites)
	userRoutes.Get("/favorites/:restaurantId", h.HandleCheckFavorite)
	userRoutes.Post("/favorites/:restaurantId", h.HandleAddFavorite)
	userRoutes.Delete("/favorites/:restaurantId", h.HandleRemoveFavorite)
	userRoutes.Get("/orders", h.HandleGetOrderHistory)
}

// HandleGetProfile returns the authenticated user's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(requesterID(c))
	if err != nil {
		return respondError(c, "Could not retrieve profile", err)
	}
	user.Password = ""
	return c.JSON(user)
}

// HandleUpdateProfile applies partial updates to the profile. Absent fields
// are left unchanged.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var update services.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing profile update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := h.service.UpdateProfile(requesterID(c), update)
	if err != nil {
		return respondError(c, "Could not update profile", err)
	}
	user.Password = ""
	return c.JSON(user)
}

// HandleGetFavorites lists the user's favorite restaurants.
func (h *UserHandler) HandleGetFavorites(c *fiber.Ctx) error {
	restaurants, err := h.service.GetFavorites(requesterID(c))
	if err != nil {
		return respondError(c, "Could not retrieve favorites", err)
	}
	return c.JSON(restaurants)
}

// HandleCheckFavorite reports whether one restaurant is a favorite.
func (h *UserHandler) HandleCheckFavorite(c *fiber.Ctx) error {
	isFavorite, err := h.service.IsFavorite(requesterID(c), c.Params("restaurantId"))
	if err != nil {
		return respondError(c, "Could not check favorite", err)
	}
	return c.JSON(fiber.Map{
		"is_favorite": isFavorite,
	})
}

// HandleAddFavorite marks a restaurant as a favorite. Adding the same
// restaurant twice is a no-op.
func (h *UserHandler) HandleAddFavorite(c *fiber.Ctx) error {
	if err := h.service.AddFavorite(requesterID(c), c.Params("restaurantId")); err != nil {
		return respondError(c, "Could not add favorite", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Restaurant added to favorites",
	})
}

// HandleRemoveFavorite unmarks a favorite restaurant.
func (h *UserHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	if err := h.service.RemoveFavorite(requesterID(c), c.Params("restaurantId")); err != nil {
		return respondError(c, "Could not remove favorite", err)
	}
	return c.JSON(fiber.Map{
		"message": "Restaurant removed from favorites",
	})
}

// HandleGetOrderHistory lists the user's past orders, newest first.
func (h *UserHandler) HandleGetOrderHistory(c *fiber.Ctx) error {
	orders, err := h.service.GetOrderHistory(requesterID(c))
	if err != nil {
		return respondError(c, "Could not retrieve order history", err)
	}
	return c.JSON(orders)
}
