// internal/core/ports/user_repository.go
package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrStoreNotFound = errors.New("store not found")
)

// UserRepository stores user accounts.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// StoreRepository stores kirana shop records.
type StoreRepository interface {
	Save(ctx context.Context, store *domain.Store) error
	FindByID(ctx context.Context, storeID uuid.UUID) (*domain.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Store, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Store, error)
}
