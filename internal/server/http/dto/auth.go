package dto

// AuthRequest describes registration/login payload. Address is the wallet
// the buyer receives purchased tokens at and is only read on registration.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Address  string `json:"address,omitempty"`
}
