package model

import "time"

// Order records a single checkout attempt created from a cart.
type Order struct {
	ID      int64
	UserID  int64
	OrderAt time.Time
}

// PreparedOrder is the result of turning a cart into a priced order.
type PreparedOrder struct {
	Order          Order
	AmountBaseUnit int64
	CartSessionID  int64
	// Displaced holds the prior pending payment canceled while preparing
	// the order, if the cart had one.
	Displaced *Payment
}
