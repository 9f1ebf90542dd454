package repository

import (
	"context"

	"github.com/polkart/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// PrepareFromCart runs the order-preparation transaction: resolves the
	// user's cart session, cancels a prior pending payment on the same cart,
	// inserts the order, links cart items to it and prices the total.
	PrepareFromCart(ctx context.Context, userID int64) (*model.PreparedOrder, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	// RecipientAddress returns the buyer's wallet address for the order.
	RecipientAddress(ctx context.Context, orderID int64) (string, error)
	// AssignItemsToBuyer moves the order's items into the buyer's owned set.
	// The returned slice is empty when the order was already checked out.
	AssignItemsToBuyer(ctx context.Context, orderID int64) ([]int64, error)
}
