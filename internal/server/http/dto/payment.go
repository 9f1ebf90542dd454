package dto

// CreatePaymentRequest selects the gateway and settlement currency for a new
// payment intent.
type CreatePaymentRequest struct {
	Provider string `json:"provider"`
	Currency string `json:"currency,omitempty"`
}

// IntentResponse is returned to the client after an intent is issued.
type IntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

// CancelPaymentRequest identifies the order whose payment should be canceled.
type CancelPaymentRequest struct {
	OrderID int64 `json:"order_id"`
}

// WebhookEvent mirrors the gateway notification envelope.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}
