package repository

import (
	"context"

	"github.com/polkart/storefront/internal/domain/model"
)

// CartRepository is the cart-session collaborator contract. Sessions are
// owned by the cart subsystem; the payment core only reads them and deletes
// consumed ones.
type CartRepository interface {
	// ActiveSession returns the user's cart session, creating one on demand.
	ActiveSession(ctx context.Context, userID int64) (int64, error)
	Meta(ctx context.Context, sessionID int64) (*model.CartMeta, error)
	AddItem(ctx context.Context, sessionID, itemID int64) error
	RemoveItem(ctx context.Context, sessionID, itemID int64) error
	// DeleteByOrderID removes the session consumed by a checked-out order.
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
