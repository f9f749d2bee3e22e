package handlers

import (
	"log"

	"foodfusion/internal/models"
	"foodfusion/internal/repositories"
	"foodfusion/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RestaurantHandler handles HTTP requests for restaurants, menus, and
// reviews.
type RestaurantHandler struct {
	service *services.RestaurantService
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(service *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{
		service: service,
	}
}

// RegisterPublicRoutes registers the routes that do not require a login.
// Browsing restaurants and menus is open to everyone.
func (h *RestaurantHandler) RegisterPublicRoutes(router fiber.Router) {
	restaurantRoutes := router.Group("/restaurants")
	restaurantRoutes.Get("/", h.HandleGetRestaurants)
	restaurantRoutes.Get("/featured", h.HandleGetFeatured)
	restaurantRoutes.Get("/:id", h.HandleGetRestaurantByID)
}

// RegisterProtectedRoutes registers the routes that require authentication.
func (h *RestaurantHandler) RegisterProtectedRoutes(router fiber.Router) {
	restaurantRoutes := router.Group("/restaurants")
	restaurantRoutes.Post("/", h.HandleCreateRestaurant)
	restaurantRoutes.Post("/:id/menu", h.HandleAddMenuItem)
	restaurantRoutes.Post("/:id/reviews", h.HandleAddReview)
}

// HandleGetRestaurants lists active restaurants. Supports ?search= over
// name, cuisine, and city, and ?veg=true to keep only vegetarian-friendly
// restaurants.
func (h *RestaurantHandler) HandleGetRestaurants(c *fiber.Ctx) error {
	filter := repositories.RestaurantFilter{
		Search:  c.Query("search"),
		VegOnly: c.QueryBool("veg"),
	}
	restaurants, err := h.service.GetRestaurants(filter)
	if err != nil {
		return respondError(c, "Could not retrieve restaurants", err)
	}
	return c.JSON(restaurants)
}

// HandleGetFeatured lists the restaurants flagged for the home screen.
func (h *RestaurantHandler) HandleGetFeatured(c *fiber.Ctx) error {
	restaurants, err := h.service.GetFeatured()
	if err != nil {
		return respondError(c, "Could not retrieve featured restaurants", err)
	}
	return c.JSON(restaurants)
}

// HandleGetRestaurantByID retrieves one restaurant with its menu and
// reviews.
func (h *RestaurantHandler) HandleGetRestaurantByID(c *fiber.Ctx) error {
	restaurant, err := h.service.GetRestaurantByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve restaurant", err)
	}
	return c.JSON(restaurant)
}

// HandleCreateRestaurant creates a new restaurant with its menu.
func (h *RestaurantHandler) HandleCreateRestaurant(c *fiber.Ctx) error {
	var restaurant models.Restaurant
	if err := c.BodyParser(&restaurant); err != nil {
		log.Printf("Error parsing create restaurant request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreateRestaurant(&restaurant); err != nil {
		return respondError(c, "Could not create restaurant", err)
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

// HandleAddMenuItem adds a dish to a restaurant's menu.
func (h *RestaurantHandler) HandleAddMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing menu item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.AddMenuItem(c.Params("id"), &item); err != nil {
		return respondError(c, "Could not add menu item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleAddReview appends a review from the authenticated user and returns
// the restaurant with its refreshed aggregate rating.
func (h *RestaurantHandler) HandleAddReview(c *fiber.Ctx) error {
	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	restaurant, err := h.service.AddReview(c.Params("id"), requesterID(c), body.Rating, body.Comment)
	if err != nil {
		return respondError(c, "Could not add review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}
