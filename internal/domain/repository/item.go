package repository

import (
	"context"

	"github.com/polkart/storefront/internal/domain/model"
)

// ItemRepository is the catalog collaborator contract.
type ItemRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error)
}
