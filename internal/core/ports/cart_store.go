// internal/core/ports/cart_store.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

// CartStore persists one cart per user. Load returns an empty cart, never an
// error, when the user has no saved cart.
type CartStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	Save(ctx context.Context, userID uuid.UUID, cart *domain.Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
