package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"foodfusion/internal/models"
	"foodfusion/internal/repositories"
)

// PaymentService simulates a payment gateway. Payments complete
// immediately: the payment record is marked paid, the order's payment
// status follows, and a still-pending order moves to preparing.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	publisher   EventPublisher
}

// NewPaymentService creates a new PaymentService. publisher may be nil.
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	orderRepo repositories.OrderRepository,
	publisher EventPublisher,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
	}
}

// CreatePayment charges the (simulated) gateway for an order owned by the
// requester. The amount always comes from the order, never the client.
func (s *PaymentService) CreatePayment(orderID, requesterID string, method models.PaymentMethod) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if order.UserID != requesterID {
		return nil, fmt.Errorf("%w: order %s belongs to another user", ErrUnauthorized, orderID)
	}
	if !order.PaymentStatus.CanTransitionTo(models.PaymentStatusPaid) {
		return nil, fmt.Errorf("%w: order payment is already %s", ErrConflict, order.PaymentStatus)
	}
	if method == "" {
		method = order.PaymentMethod
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}

	// The guarded update decides which of two concurrent payment attempts
	// wins; only the winner gets to record a payment.
	if err := s.orderRepo.AdvancePaymentStatus(orderID, order.PaymentStatus, models.PaymentStatusPaid); err != nil {
		if errors.Is(err, repositories.ErrStale) {
			return nil, fmt.Errorf("%w: order payment changed concurrently", ErrConflict)
		}
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	payment := &models.Payment{
		OrderID:       orderID,
		UserID:        requesterID,
		Amount:        order.TotalAmount,
		Method:        method,
		Status:        models.PaymentStatusPaid,
		TransactionID: fmt.Sprintf("TXN%d%03d", time.Now().UnixMilli(), rand.Intn(1000)),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	// Payment confirmation kicks a pending order into preparation. If the
	// scheduler already advanced it the guard fails, which is fine.
	if order.Status == models.OrderStatusPending {
		err := s.orderRepo.AdvanceStatus(orderID, models.OrderStatusPending, models.OrderStatusPreparing, false)
		if err != nil && !errors.Is(err, repositories.ErrStale) {
			log.Printf("Failed to advance paid order %s to preparing: %v", orderID, err)
		}
	}

	if s.publisher != nil {
		payload := map[string]interface{}{
			"order_id":       orderID,
			"payment_id":     payment.ID,
			"transaction_id": payment.TransactionID,
			"amount":         payment.Amount,
		}
		if err := s.publisher.PublishOrderEvent("order.paid", payload); err != nil {
			log.Printf("Warning: failed to publish payment event for order %s: %v", orderID, err)
		}
	}
	return payment, nil
}

// GetPaymentDetails retrieves the payment record for an order owned by the
// requester.
func (s *PaymentService) GetPaymentDetails(orderID, requesterID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("payment for order %s: %w", orderID, ErrNotFound)
	}
	if payment.UserID != requesterID {
		return nil, fmt.Errorf("%w: payment belongs to another user", ErrUnauthorized)
	}
	return payment, nil
}

// Refund moves a paid payment to refunded and mirrors the change on the
// order's payment status.
func (s *PaymentService) Refund(orderID, requesterID, reason string) (*models.Payment, error) {
	payment, err := s.GetPaymentDetails(orderID, requesterID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(models.PaymentStatusRefunded) {
		return nil, fmt.Errorf("%w: payment is %s, only paid payments can be refunded", ErrConflict, payment.Status)
	}

	payment.Status = models.PaymentStatusRefunded
	payment.RefundReason = reason
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}
	if err := s.orderRepo.UpdatePaymentStatus(orderID, models.PaymentStatusRefunded); err != nil {
		log.Printf("Failed to mirror refund on order %s: %v", orderID, err)
	}
	return payment, nil
}
