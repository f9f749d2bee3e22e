package handlers

import (
	"log"

	"foodfusion/internal/models"
	"foodfusion/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payments. All routes require
// authentication.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/", h.HandleCreatePayment)
	paymentRoutes.Get("/:orderId", h.HandleGetPaymentDetails)
	paymentRoutes.Post("/:orderId/refund", h.HandleRefund)
}

// HandleCreatePayment charges the simulated gateway for an order.
func (h *PaymentHandler) HandleCreatePayment(c *fiber.Ctx) error {
	var body struct {
		OrderID string               `json:"order_id"`
		Method  models.PaymentMethod `json:"method"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing payment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	payment, err := h.service.CreatePayment(body.OrderID, requesterID(c), body.Method)
	if err != nil {
		return respondError(c, "Could not process payment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// HandleGetPaymentDetails retrieves the payment record for an order.
func (h *PaymentHandler) HandleGetPaymentDetails(c *fiber.Ctx) error {
	payment, err := h.service.GetPaymentDetails(c.Params("orderId"), requesterID(c))
	if err != nil {
		return respondError(c, "Could not retrieve payment", err)
	}
	return c.JSON(payment)
}

// HandleRefund refunds a paid payment.
func (h *PaymentHandler) HandleRefund(c *fiber.Ctx) error {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing refund request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	payment, err := h.service.Refund(c.Params("orderId"), requesterID(c), body.Reason)
	if err != nil {
		return respondError(c, "Could not refund payment", err)
	}
	return c.JSON(payment)
}
