package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "order_idem:"

// IdempotencyStore remembers which order id a client-supplied idempotency
// key produced, so a retried order submission returns the original order
// instead of creating a duplicate.
type IdempotencyStore interface {
	// Get returns the order id previously stored under key, or "" when the
	// key has not been seen.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, orderID string) error
}

// RedisIdempotencyStore implements IdempotencyStore using Redis.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store. Keys
// expire after ttl; retries later than that create a fresh order.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the order id stored under key, or "" on a miss.
func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	orderID, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	return orderID, nil
}

// Set records the order id created for key.
func (s *RedisIdempotencyStore) Set(ctx context.Context, key, orderID string) error {
	if err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}

// MockIdempotencyStore is an in-memory implementation for tests and for
// running without Redis.
type MockIdempotencyStore struct {
	keys map[string]string
}

// NewMockIdempotencyStore creates a new instance of MockIdempotencyStore.
func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{keys: make(map[string]string)}
}

// Get returns the order id stored under key, or "" on a miss.
func (s *MockIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	return s.keys[key], nil
}

// Set records the order id created for key.
func (s *MockIdempotencyStore) Set(_ context.Context, key, orderID string) error {
	if _, exists := s.keys[key]; !exists {
		s.keys[key] = orderID
	}
	return nil
}
