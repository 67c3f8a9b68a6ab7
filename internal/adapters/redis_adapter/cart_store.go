// internal/adapters/redis_adapter/cart_store.go
package redis_a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// CartStore keeps one cart per user in Redis. Carts are working state, not
// durable records; the TTL lets abandoned carts age out on their own.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.CartStore = (*CartStore)(nil)

// NewCartStore creates a Redis-backed cart store
func NewCartStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) ports.CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cart_store")),
	}
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

// Load returns the user's saved cart, or an empty cart when none exists.
func (s *CartStore) Load(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.NewCart(), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := domain.NewCart()
	if err := json.Unmarshal(data, cart); err != nil {
		// A cart that no longer parses is dropped rather than wedging the
		// user's session.
		s.logger.WarnContext(ctx, "discarding unreadable cart",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return domain.NewCart(), nil
	}

	return cart, nil
}

// Save writes the cart and resets its TTL.
func (s *CartStore) Save(ctx context.Context, userID uuid.UUID, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.DebugContext(ctx, "cart saved",
		slog.String("user_id", userID.String()),
		slog.Int("items", len(cart.Items)))

	return nil
}

// Clear removes the user's cart. Clearing an absent cart is a no-op.
func (s *CartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
