package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// Store persists carts between page loads, scoped per browser/device (not
// per user account). It mirrors the localStorage behaviour of the web
// client: durable, device-local, never the authority on prices.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed cart store. Carts expire after ttl of
// inactivity; a ttl of 0 keeps them indefinitely.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves the cart for a device. A device with no saved cart gets an
// empty one, not an error.
func (s *Store) Load(ctx context.Context, deviceID string) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+deviceID).Bytes()
	if err == redis.Nil {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for device %s: %w", deviceID, err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart for device %s: %w", deviceID, err)
	}
	return &c, nil
}

// Save persists the cart for a device, refreshing its TTL.
func (s *Store) Save(ctx context.Context, deviceID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart for device %s: %w", deviceID, err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+deviceID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for device %s: %w", deviceID, err)
	}
	return nil
}

// Delete removes the saved cart for a device. Called after checkout.
func (s *Store) Delete(ctx context.Context, deviceID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+deviceID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for device %s: %w", deviceID, err)
	}
	return nil
}
