package services

import (
	"errors"
	"log"
	"time"

	"foodfusion/internal/models"
	"foodfusion/internal/repositories"
)

// advancementThresholds maps each non-terminal status to the elapsed time
// since order creation after which the next forward step applies. Measured
// from createdAt, not from the last transition, so a missed tick self-heals
// over the following ticks.
var advancementThresholds = map[models.OrderStatus]time.Duration{
	models.OrderStatusPending:        5 * time.Minute,
	models.OrderStatusPreparing:      10 * time.Minute,
	models.OrderStatusReady:          15 * time.Minute,
	models.OrderStatusOutForDelivery: 25 * time.Minute,
}

// StatusUpdater advances in-flight orders through the fulfillment sequence
// based on wall-clock time since creation. It applies at most one step per
// order per tick; an order far behind its true elapsed time catches up over
// successive ticks. The clock is injectable so tests never sleep.
type StatusUpdater struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
	now       func() time.Time
}

// NewStatusUpdater creates a new StatusUpdater. publisher may be nil; now
// defaults to time.Now when nil.
func NewStatusUpdater(orderRepo repositories.OrderRepository, publisher EventPublisher, now func() time.Time) *StatusUpdater {
	if now == nil {
		now = time.Now
	}
	return &StatusUpdater{
		orderRepo: orderRepo,
		publisher: publisher,
		now:       now,
	}
}

// Tick runs one pass over all non-terminal orders and returns how many were
// advanced. A failure on one order is logged and never aborts the rest of
// the batch; Tick itself only fails when the initial scan does.
func (u *StatusUpdater) Tick() (int, error) {
	orders, err := u.orderRepo.GetActive()
	if err != nil {
		return 0, err
	}

	now := u.now()
	advanced := 0
	for i := range orders {
		if u.advance(&orders[i], now) {
			advanced++
		}
	}
	if advanced > 0 {
		log.Printf("Status updater advanced %d of %d active orders", advanced, len(orders))
	}
	return advanced, nil
}

// advance applies at most one forward step to a single order.
func (u *StatusUpdater) advance(order *models.Order, now time.Time) bool {
	threshold, ok := advancementThresholds[order.Status]
	if !ok {
		return false
	}
	if now.Sub(order.CreatedAt) < threshold {
		return false
	}

	next := order.Status.Next()
	// Delivery doubles as payment confirmation for the simulated gateway.
	markPaid := next == models.OrderStatusDelivered

	err := u.orderRepo.AdvanceStatus(order.ID, order.Status, next, markPaid)
	if err != nil {
		// A stale guard means a user cancelled (or another tick advanced)
		// the order between our scan and this write. That is expected,
		// not a failure.
		if errors.Is(err, repositories.ErrStale) {
			log.Printf("Order %s changed concurrently, skipping advancement", order.ID)
		} else {
			log.Printf("Error advancing order %s from %s: %v", order.ID, order.Status, err)
		}
		return false
	}

	order.Status = next
	if markPaid {
		order.PaymentStatus = models.PaymentStatusPaid
	}
	if u.publisher != nil {
		payload := map[string]interface{}{
			"order_id":       order.ID,
			"user_id":        order.UserID,
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
		}
		if err := u.publisher.PublishOrderEvent("order.status_changed", payload); err != nil {
			log.Printf("Warning: failed to publish status change for order %s: %v", order.ID, err)
		}
	}
	return true
}
