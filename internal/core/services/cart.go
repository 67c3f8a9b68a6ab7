// internal/core/services/cart.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// CartService manages the shopper's persisted cart. Adding an item snapshots
// the current name and price; checkout re-validates stock, so the cart never
// reserves inventory.
type CartService struct {
	carts     ports.CartStore
	inventory ports.InventoryRepository
	logger    *slog.Logger
}

var _ ports.CartService = (*CartService)(nil)

// NewCartService creates a new cart service
func NewCartService(carts ports.CartStore, inventory ports.InventoryRepository, logger *slog.Logger) *CartService {
	return &CartService{
		carts:     carts,
		inventory: inventory,
		logger:    logger.With(slog.String("service", "cart")),
	}
}

// GetCart loads the user's cart, empty when none is saved.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// AddItem puts quantity units of an inventory item into the user's cart.
func (s *CartService) AddItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.Cart, error) {
	item, err := s.inventory.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil {
		return nil, ports.ErrItemNotFound
	}
	if item.Quantity < quantity {
		return nil, ports.ErrInsufficientStock
	}

	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	line := domain.CartItem{
		ItemID:   item.ID,
		StoreID:  item.StoreID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
		Image:    item.ImageURL,
	}

	if err := cart.AddItem(line); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.DebugContext(ctx, "item added to cart",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quantity", quantity))

	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line; zero removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.Cart, error) {
	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := cart.UpdateQuantity(itemID, quantity); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// RemoveItem drops a line from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart.RemoveItem(itemID)

	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// ClearCart empties the user's saved cart.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
