package repository

import (
	"context"

	"github.com/polkart/storefront/internal/domain/model"
)

// UserRepository describes persistence operations for storefront accounts.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash, address string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
