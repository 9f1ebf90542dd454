package usecase

import (
	"context"

	"github.com/polkart/storefront/internal/domain/model"
	"github.com/polkart/storefront/internal/domain/repository"
)

// CartUseCase manages the user's cart session.
type CartUseCase struct {
	carts repository.CartRepository
	items repository.ItemRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, items repository.ItemRepository) *CartUseCase {
	return &CartUseCase{carts: carts, items: items}
}

// List returns the items currently in the user's cart.
func (u *CartUseCase) List(ctx context.Context, userID int64) ([]model.Item, error) {
	sessionID, err := u.carts.ActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	meta, err := u.carts.Meta(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(meta.ItemIDs) == 0 {
		return nil, nil
	}
	return u.items.FindByIDs(ctx, meta.ItemIDs)
}

// AddItem puts a catalog item into the user's cart.
func (u *CartUseCase) AddItem(ctx context.Context, userID, itemID int64) error {
	sessionID, err := u.carts.ActiveSession(ctx, userID)
	if err != nil {
		return err
	}
	return u.carts.AddItem(ctx, sessionID, itemID)
}

// RemoveItem drops an item from the user's cart.
func (u *CartUseCase) RemoveItem(ctx context.Context, userID, itemID int64) error {
	sessionID, err := u.carts.ActiveSession(ctx, userID)
	if err != nil {
		return err
	}
	return u.carts.RemoveItem(ctx, sessionID, itemID)
}
