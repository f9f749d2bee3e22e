package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"foodfusion/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	refs   map[string]string // orderID -> userID back-reference
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		refs:   make(map[string]string),
	}
}

// Create adds a new order and its owner back-reference.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	r.refs[order.ID] = order.UserID
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByUserID returns a user's orders, newest first.
func (r *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// GetActive returns all orders that are not yet terminal.
func (r *MockOrderRepository) GetActive() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if !order.Status.Terminal() {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, nil
}

// AdvanceStatus applies a status-guarded update, mirroring the conditional
// UPDATE of the GORM implementation.
func (r *MockOrderRepository) AdvanceStatus(id string, from, to models.OrderStatus, markPaid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrStale)
	}
	order.Status = to
	if markPaid {
		order.PaymentStatus = models.PaymentStatusPaid
	}
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// SetRating stores the one-time delivery rating.
func (r *MockOrderRepository) SetRating(id string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	order.Rating = &rating
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// UpdatePaymentStatus sets the payment status of an order.
func (r *MockOrderRepository) UpdatePaymentStatus(id string, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	order.PaymentStatus = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// AdvancePaymentStatus applies a payment-status-guarded update, mirroring
// the conditional UPDATE of the GORM implementation.
func (r *MockOrderRepository) AdvancePaymentStatus(id string, from, to models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.PaymentStatus != from {
		return fmt.Errorf("order %s payment is no longer %s: %w", id, from, ErrStale)
	}
	order.PaymentStatus = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// Delete removes the order and its back-reference.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	delete(r.orders, id)
	delete(r.refs, id)
	return nil
}

// HasRef reports whether the owner back-reference for an order still
// exists. Used by tests to check delete detaches history.
func (r *MockOrderRepository) HasRef(orderID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.refs[orderID]
	return ok
}
