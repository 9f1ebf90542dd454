package model

import "time"

// User represents a storefront account. Address is the wallet items are
// transferred to on checkout.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Address      string
	CreatedAt    time.Time
}
