package handlers

import (
	"log"

	"foodfusion/internal/models"
	"foodfusion/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app. All routes
// require authentication.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/rate", h.HandleRateOrder)
	orderRoutes.Put("/:id/payment", h.HandleUpdatePaymentStatus)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// HandleGetOrders retrieves the caller's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrders(requesterID(c))
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order owned by the caller.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"), requesterID(c))
	if err != nil {
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order from a cart-derived payload. An
// optional Idempotency-Key header makes retried submissions safe.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	input.IdempotencyKey = c.Get("Idempotency-Key")

	order, err := h.service.CreateOrder(c.Context(), requesterID(c), input)
	if err != nil {
		return respondError(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleCancelOrder cancels a pending order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.Cancel(c.Params("id"), requesterID(c))
	if err != nil {
		return respondError(c, "Could not cancel order", err)
	}
	return c.JSON(order)
}

// HandleRateOrder sets the one-time rating on a delivered order.
func (h *OrderHandler) HandleRateOrder(c *fiber.Ctx) error {
	var body struct {
		Rating int `json:"rating"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing rate order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.Rate(c.Params("id"), requesterID(c), body.Rating)
	if err != nil {
		return respondError(c, "Could not rate order", err)
	}
	return c.JSON(order)
}

// HandleUpdatePaymentStatus moves the payment status along its state
// machine.
func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	var body struct {
		PaymentStatus models.PaymentStatus `json:"payment_status"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing payment status request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.UpdatePaymentStatus(c.Params("id"), requesterID(c), body.PaymentStatus)
	if err != nil {
		return respondError(c, "Could not update payment status", err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder hard-removes an order and its history back-reference.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id"), requesterID(c)); err != nil {
		return respondError(c, "Could not delete order", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted successfully",
	})
}
