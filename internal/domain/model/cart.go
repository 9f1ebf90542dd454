package model

// CartMeta describes a user's active cart session.
type CartMeta struct {
	ID      int64
	UserID  int64
	OrderID *int64
	ItemIDs []int64
}
