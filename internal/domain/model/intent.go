package model

// Intent is a provider-issued payment intent handed back to the client.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       string
	Currency     string
}
