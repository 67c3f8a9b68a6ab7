// internal/adapters/db/user_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// userRepository implements ports.UserRepository
type userRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *Database, logger *slog.Logger) ports.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "users")),
	}
}

// Save upserts a user account keyed by id
func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO users (user_id, email, name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email, name = EXCLUDED.name,
			phone = EXCLUDED.phone, role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Name, nullIfEmpty(user.Phone), user.Role,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *userRepository) FindByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, phone, role, created_at, updated_at
		FROM users WHERE user_id = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, userID))
}

// FindByEmail retrieves a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT user_id, email, name, phone, role, created_at, updated_at
		FROM users WHERE email = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var phone sql.NullString

	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &phone, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Phone = phone.String
	return user, nil
}

// storeRepository implements ports.StoreRepository
type storeRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *Database, logger *slog.Logger) ports.StoreRepository {
	return &storeRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "stores")),
	}
}

const storeColumns = `store_id, owner_id, name, address, contact, operating_hours, latitude, longitude, created_at, updated_at`

// Save upserts a store keyed by id
func (r *storeRepository) Save(ctx context.Context, store *domain.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	now := time.Now()
	if store.CreatedAt.IsZero() {
		store.CreatedAt = now
	}
	store.UpdatedAt = now

	query := `
		INSERT INTO stores (store_id, owner_id, name, address, contact, operating_hours, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (store_id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address,
			contact = EXCLUDED.contact, operating_hours = EXCLUDED.operating_hours,
			latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		store.ID, store.OwnerID, store.Name, store.Address,
		nullIfEmpty(store.Contact), nullIfEmpty(store.OperatingHours),
		store.Latitude, store.Longitude,
		store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}

	return nil
}

// FindByID retrieves a store by ID
func (r *storeRepository) FindByID(ctx context.Context, storeID uuid.UUID) (*domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE store_id = $1`
	return r.scanStore(r.db.QueryRow(ctx, query, storeID))
}

// FindByOwner retrieves the store belonging to an owner
func (r *storeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE owner_id = $1`
	return r.scanStore(r.db.QueryRow(ctx, query, ownerID))
}

// FindAll lists stores with pagination
func (r *storeRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Store, error) {
	query := `SELECT ` + storeColumns + `
		FROM stores
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		store, err := r.scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stores, nil
}

func (r *storeRepository) scanStore(row pgx.Row) (*domain.Store, error) {
	store := &domain.Store{}
	var contact, hours sql.NullString
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&store.ID, &store.OwnerID, &store.Name, &store.Address,
		&contact, &hours, &lat, &lng,
		&store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find store: %w", err)
	}

	store.Contact = contact.String
	store.OperatingHours = hours.String
	store.Latitude = lat.Float64
	store.Longitude = lng.Float64

	return store, nil
}

var _ ports.UserRepository = (*userRepository)(nil)
var _ ports.StoreRepository = (*storeRepository)(nil)
