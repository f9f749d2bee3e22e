package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"foodfusion/internal/models"
	"foodfusion/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes order lifecycle events to the message broker.
// Publishing is best effort: failures are logged, never surfaced to the
// caller.
type EventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}

// CreateOrderInput is the cart-derived payload for placing an order. Item
// names and prices sent by the client are advisory; the server re-reads the
// live menu and snapshots those values itself.
type CreateOrderInput struct {
	RestaurantID    string                 `json:"restaurant_id"`
	Items           []models.OrderItem     `json:"items"`
	TotalAmount     float64                `json:"total_amount"`
	DeliveryAddress models.DeliveryAddress `json:"delivery_address"`
	PaymentMethod   models.PaymentMethod   `json:"payment_method"`
	IdempotencyKey  string                 `json:"-"`
}

// OrderService handles business logic related to orders: creation with
// price snapshotting, the user-initiated lifecycle transitions, and
// ownership checks.
type OrderService struct {
	orderRepo      repositories.OrderRepository
	restaurantRepo repositories.RestaurantRepository
	idemStore      repositories.IdempotencyStore
	publisher      EventPublisher
	deliveryFee    float64
}

// NewOrderService creates a new OrderService. idemStore and publisher may
// be nil; idempotency keys are then ignored and no events are published.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	restaurantRepo repositories.RestaurantRepository,
	idemStore repositories.IdempotencyStore,
	publisher EventPublisher,
	deliveryFee float64,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		idemStore:      idemStore,
		publisher:      publisher,
		deliveryFee:    deliveryFee,
	}
}

// DeliveryFee returns the flat delivery fee applied to every order.
func (s *OrderService) DeliveryFee() float64 {
	return s.deliveryFee
}

// CreateOrder validates the payload, snapshots each item's current menu
// name and price, computes and checks the total, and persists the order
// with its owner back-reference. The order starts as pending/pending.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*models.Order, error) {
	// Keys are client-chosen, so they are scoped per user before touching
	// the shared store. One user's key can never replay another user's
	// order; an unverifiable hit falls through to normal creation.
	var idemKey string
	if input.IdempotencyKey != "" && s.idemStore != nil {
		idemKey = userID + ":" + input.IdempotencyKey
		existingID, err := s.idemStore.Get(ctx, idemKey)
		if err != nil {
			log.Printf("Idempotency lookup failed, continuing without dedup: %v", err)
		} else if existingID != "" {
			existing, err := s.orderRepo.GetByID(existingID)
			if err == nil && existing.UserID == userID {
				return existing, nil
			}
			log.Printf("Idempotency key for user %s points at unusable order %s, creating anew", userID, existingID)
		}
	}

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidInput)
	}
	if !input.DeliveryAddress.Complete() {
		return nil, fmt.Errorf("%w: delivery address requires street, city, state and zip code", ErrInvalidInput)
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodCash
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	if _, err := s.restaurantRepo.GetByID(input.RestaurantID); err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", input.RestaurantID, ErrNotFound)
	}

	// Snapshot name and unit price from the live menu so later menu edits
	// never retroactively alter this order.
	snapshot := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %s quantity must be at least 1", ErrInvalidInput, item.ItemID)
		}
		menuItem, err := s.restaurantRepo.GetMenuItem(item.ItemID)
		if err != nil {
			return nil, fmt.Errorf("menu item %s: %w", item.ItemID, ErrNotFound)
		}
		if menuItem.RestaurantID != input.RestaurantID {
			return nil, fmt.Errorf("%w: item %s does not belong to restaurant %s", ErrInvalidInput, item.ItemID, input.RestaurantID)
		}
		snapshot = append(snapshot, models.OrderItem{
			ItemID:    menuItem.ID,
			Name:      menuItem.Name,
			Quantity:  item.Quantity,
			UnitPrice: menuItem.Price,
		})
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		RestaurantID:    input.RestaurantID,
		Items:           snapshot,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		DeliveryAddress: input.DeliveryAddress,
		CreatedAt:       time.Now(),
	}
	order.TotalAmount = order.Subtotal() + s.deliveryFee

	// The client sends the total it displayed; reject it if it disagrees
	// with the server-side computation.
	if input.TotalAmount != 0 && math.Abs(input.TotalAmount-order.TotalAmount) > 0.01 {
		return nil, fmt.Errorf("%w: total amount %.2f does not match computed %.2f",
			ErrInvalidInput, input.TotalAmount, order.TotalAmount)
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if idemKey != "" {
		if err := s.idemStore.Set(ctx, idemKey, order.ID); err != nil {
			log.Printf("Failed to store idempotency key for order %s: %v", order.ID, err)
		}
	}

	s.publish("order.created", order)
	return order, nil
}

// GetOrders retrieves the caller's orders, newest first.
func (s *OrderService) GetOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrder retrieves a single order, enforcing ownership.
func (s *OrderService) GetOrder(orderID, requesterID string) (*models.Order, error) {
	return s.getOwned(orderID, requesterID)
}

// Cancel moves an order to cancelled. Legal only while the order is still
// pending; the status-guarded update means a scheduler tick racing this
// call cannot both advance and cancel the order.
func (s *OrderService) Cancel(orderID, requesterID string) (*models.Order, error) {
	order, err := s.getOwned(orderID, requesterID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order is %s, only pending orders can be cancelled", ErrConflict, order.Status)
	}

	err = s.orderRepo.AdvanceStatus(orderID, models.OrderStatusPending, models.OrderStatusCancelled, false)
	if err != nil {
		if errors.Is(err, repositories.ErrStale) {
			return nil, fmt.Errorf("%w: order left pending before it could be cancelled", ErrConflict)
		}
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	order.Status = models.OrderStatusCancelled
	s.publish("order.cancelled", order)
	return order, nil
}

// Rate sets the one-time 1..5 rating on a delivered order.
func (s *OrderService) Rate(orderID, requesterID string, rating int) (*models.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	order, err := s.getOwned(orderID, requesterID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: only delivered orders can be rated", ErrConflict)
	}
	if order.Rating != nil {
		return nil, fmt.Errorf("%w: order already rated", ErrConflict)
	}

	if err := s.orderRepo.SetRating(orderID, rating); err != nil {
		return nil, fmt.Errorf("failed to rate order: %w", err)
	}
	order.Rating = &rating
	return order, nil
}

// Delete hard-removes an order and detaches it from the owner's history.
// Legal at any status.
func (s *OrderService) Delete(orderID, requesterID string) error {
	if _, err := s.getOwned(orderID, requesterID); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// UpdatePaymentStatus moves the payment status along its own state machine:
// pending->paid, pending->failed, failed->paid, paid->refunded.
func (s *OrderService) UpdatePaymentStatus(orderID, requesterID string, status models.PaymentStatus) (*models.Order, error) {
	order, err := s.getOwned(orderID, requesterID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentStatus.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: payment cannot move from %s to %s", ErrConflict, order.PaymentStatus, status)
	}

	if err := s.orderRepo.AdvancePaymentStatus(orderID, order.PaymentStatus, status); err != nil {
		if errors.Is(err, repositories.ErrStale) {
			return nil, fmt.Errorf("%w: order payment changed concurrently", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	order.PaymentStatus = status
	return order, nil
}

// getOwned fetches an order and verifies the requester owns it.
func (s *OrderService) getOwned(orderID, requesterID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if order.UserID != requesterID {
		return nil, fmt.Errorf("%w: order %s belongs to another user", ErrUnauthorized, orderID)
	}
	return order, nil
}

func (s *OrderService) publish(event string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"restaurant_id":  order.RestaurantID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"total":          order.TotalAmount,
	}
	if err := s.publisher.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}
