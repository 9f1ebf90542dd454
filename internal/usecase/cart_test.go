package usecase

import (
	"context"
	"testing"

	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
	"github.com/polkart/storefront/internal/test"
)

func TestCartUseCaseListResolvesItems(t *testing.T) {
	carts := &test.CartRepositoryStub{SessionID: 3, ItemIDs: []int64{1, 2}}
	items := &test.ItemRepositoryStub{Items: []model.Item{
		{ID: 1, Name: "a", Price: 100, TokenID: "10"},
		{ID: 2, Name: "b", Price: 200, TokenID: "20"},
	}}
	uc := NewCartUseCase(carts, items)

	got, err := uc.List(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected items %+v", got)
	}
}

func TestCartUseCaseListEmptySessionSkipsCatalog(t *testing.T) {
	carts := &test.CartRepositoryStub{SessionID: 3}
	items := &test.ItemRepositoryStub{FindByIDsFn: func(context.Context, []int64) ([]model.Item, error) {
		t.Fatal("catalog lookup must not run for an empty cart")
		return nil, nil
	}}

	got, err := NewCartUseCase(carts, items).List(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil items, got %+v", got)
	}
}

func TestCartUseCaseAddItem(t *testing.T) {
	carts := &test.CartRepositoryStub{SessionID: 3}
	uc := NewCartUseCase(carts, &test.ItemRepositoryStub{})

	if err := uc.AddItem(context.Background(), 7, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(carts.AddedItems) != 1 || carts.AddedItems[0] != 42 {
		t.Fatalf("unexpected added items %v", carts.AddedItems)
	}
}

func TestCartUseCaseRemoveItemPropagatesSessionError(t *testing.T) {
	carts := &test.CartRepositoryStub{}
	uc := NewCartUseCase(carts, &test.ItemRepositoryStub{})

	if err := uc.RemoveItem(context.Background(), 7, 42); err != domainErrors.ErrNoActiveCart {
		t.Fatalf("expected no active cart error, got %v", err)
	}
}
