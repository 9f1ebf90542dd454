package dto

import "github.com/polkart/storefront/internal/domain/model"

// CartItemResponse describes one item in the active cart.
type CartItemResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Price   int64  `json:"price"`
	TokenID string `json:"token_id"`
}

// NewCartResponse converts catalog items to the wire representation.
func NewCartResponse(items []model.Item) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, CartItemResponse{
			ID:      it.ID,
			Name:    it.Name,
			Price:   it.Price,
			TokenID: it.TokenID,
		})
	}
	return out
}
