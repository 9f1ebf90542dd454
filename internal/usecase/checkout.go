package usecase

import (
	"context"
	"log/slog"

	"github.com/polkart/storefront/internal/adapter/fulfillment"
	"github.com/polkart/storefront/internal/domain/repository"
)

// CheckoutUseCase finalizes a paid order: items move to the buyer and the
// transfer is dispatched to fulfillment.
type CheckoutUseCase struct {
	orders      repository.OrderRepository
	items       repository.ItemRepository
	fulfillment fulfillment.Transferrer
	logger      *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, items repository.ItemRepository, transferrer fulfillment.Transferrer, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{orders: orders, items: items, fulfillment: transferrer, logger: logger}
}

// Checkout assigns the order's items to the buyer and dispatches the
// transfer. Returns false when the order was already checked out.
func (u *CheckoutUseCase) Checkout(ctx context.Context, orderID int64) (bool, error) {
	address, err := u.orders.RecipientAddress(ctx, orderID)
	if err != nil {
		return false, err
	}

	itemIDs, err := u.orders.AssignItemsToBuyer(ctx, orderID)
	if err != nil {
		return false, err
	}
	if len(itemIDs) == 0 {
		return false, nil
	}

	items, err := u.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return false, err
	}

	// Checkout does not wait for fulfillment; transfer problems are solved
	// out of band.
	transferCtx := context.WithoutCancel(ctx)
	go func() {
		if err := u.fulfillment.Transfer(transferCtx, items, address); err != nil {
			u.logger.Error("fulfillment transfer failed",
				slog.Int64("order_id", orderID),
				slog.String("error", err.Error()),
			)
		}
	}()

	return true, nil
}
