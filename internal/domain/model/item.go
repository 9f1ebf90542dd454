package model

// Item is a purchasable catalog entry. Price is in base-currency base units.
type Item struct {
	ID      int64
	Name    string
	Price   int64
	TokenID string
}
