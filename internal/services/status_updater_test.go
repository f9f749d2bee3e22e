package services_test

import (
	"testing"
	"time"

	"foodfusion/internal/models"
	"foodfusion/internal/repositories"
	"foodfusion/internal/services"

	"github.com/stretchr/testify/assert"
)

func newPendingOrder(repo *repositories.MockOrderRepository, id string, createdAt time.Time) {
	_ = repo.Create(&models.Order{
		ID:            id,
		UserID:        "user-1",
		RestaurantID:  "rest-1",
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     createdAt,
	})
}

func statusOf(t *testing.T, repo *repositories.MockOrderRepository, id string) models.OrderStatus {
	t.Helper()
	order, err := repo.GetByID(id)
	assert.NoError(t, err)
	return order.Status
}

func TestStatusUpdater_Thresholds(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	repo := repositories.NewMockOrderRepository()
	updater := services.NewStatusUpdater(repo, nil, func() time.Time { return now })

	newPendingOrder(repo, "order-1", base)

	// Before the 5 minute mark nothing moves
	now = base.Add(4 * time.Minute)
	advanced, err := updater.Tick()
	assert.NoError(t, err)
	assert.Equal(t, 0, advanced)
	assert.Equal(t, models.OrderStatusPending, statusOf(t, repo, "order-1"))

	// At 5 minutes: pending -> preparing
	now = base.Add(5 * time.Minute)
	advanced, _ = updater.Tick()
	assert.Equal(t, 1, advanced)
	assert.Equal(t, models.OrderStatusPreparing, statusOf(t, repo, "order-1"))

	// At 10 minutes: preparing -> ready
	now = base.Add(10 * time.Minute)
	advanced, _ = updater.Tick()
	assert.Equal(t, 1, advanced)
	assert.Equal(t, models.OrderStatusReady, statusOf(t, repo, "order-1"))

	// At 15 minutes: ready -> out_for_delivery
	now = base.Add(15 * time.Minute)
	advanced, _ = updater.Tick()
	assert.Equal(t, 1, advanced)
	assert.Equal(t, models.OrderStatusOutForDelivery, statusOf(t, repo, "order-1"))

	// At 25 minutes: out_for_delivery -> delivered, and payment completes
	now = base.Add(25 * time.Minute)
	advanced, _ = updater.Tick()
	assert.Equal(t, 1, advanced)
	order, _ := repo.GetByID("order-1")
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	// Delivered is terminal; further ticks are no-ops
	now = base.Add(2 * time.Hour)
	advanced, _ = updater.Tick()
	assert.Equal(t, 0, advanced)
	assert.Equal(t, models.OrderStatusDelivered, statusOf(t, repo, "order-1"))
}

func TestStatusUpdater_TickIsIdempotentAtSameInstant(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base.Add(6 * time.Minute)
	repo := repositories.NewMockOrderRepository()
	updater := services.NewStatusUpdater(repo, nil, func() time.Time { return now })

	newPendingOrder(repo, "order-1", base)

	advanced, _ := updater.Tick()
	assert.Equal(t, 1, advanced)

	// Same clock reading, second tick: one step already applied, the
	// 10 minute threshold for the next step is not reached
	advanced, _ = updater.Tick()
	assert.Equal(t, 0, advanced)
	assert.Equal(t, models.OrderStatusPreparing, statusOf(t, repo, "order-1"))
}

func TestStatusUpdater_CatchesUpOneStepPerTick(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// The scheduler was down for an hour; the order's true position is
	// delivered but each tick applies only one step
	now := base.Add(time.Hour)
	repo := repositories.NewMockOrderRepository()
	updater := services.NewStatusUpdater(repo, nil, func() time.Time { return now })

	newPendingOrder(repo, "order-1", base)

	expected := []models.OrderStatus{
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered,
	}
	for _, want := range expected {
		advanced, err := updater.Tick()
		assert.NoError(t, err)
		assert.Equal(t, 1, advanced)
		assert.Equal(t, want, statusOf(t, repo, "order-1"))
	}

	advanced, _ := updater.Tick()
	assert.Equal(t, 0, advanced)
}

func TestStatusUpdater_SkipsCancelledAndAdvancesRest(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base.Add(7 * time.Minute)
	repo := repositories.NewMockOrderRepository()
	publisher := &recordingPublisher{}
	updater := services.NewStatusUpdater(repo, publisher, func() time.Time { return now })

	newPendingOrder(repo, "order-1", base)
	newPendingOrder(repo, "order-2", base)
	newPendingOrder(repo, "order-3", base.Add(5*time.Minute)) // too young to move

	// The user cancels order-2 between the scan and the tick's write; the
	// guarded update refuses to advance it
	assert.NoError(t, repo.AdvanceStatus("order-2", models.OrderStatusPending, models.OrderStatusCancelled, false))

	advanced, err := updater.Tick()
	assert.NoError(t, err)
	assert.Equal(t, 1, advanced)
	assert.Equal(t, models.OrderStatusPreparing, statusOf(t, repo, "order-1"))
	assert.Equal(t, models.OrderStatusCancelled, statusOf(t, repo, "order-2"))
	assert.Equal(t, models.OrderStatusPending, statusOf(t, repo, "order-3"))
	assert.Equal(t, []string{"order.status_changed"}, publisher.events)
}

func TestStatusUpdater_GuardLosesToConcurrentCancel(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := repositories.NewMockOrderRepository()

	newPendingOrder(repo, "order-1", base)

	// Simulate the race directly at the repository: once the cancel wins,
	// the pending-guarded advancement must fail with a stale error
	assert.NoError(t, repo.AdvanceStatus("order-1", models.OrderStatusPending, models.OrderStatusCancelled, false))
	err := repo.AdvanceStatus("order-1", models.OrderStatusPending, models.OrderStatusPreparing, false)
	assert.ErrorIs(t, err, repositories.ErrStale)
	assert.Equal(t, models.OrderStatusCancelled, statusOf(t, repo, "order-1"))
}
