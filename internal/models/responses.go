package models

// ErrorResponse is the generic error body returned by handlers. Errors holds
// the per-field validation messages when present.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// MessageResponse is the generic success body, in place of the original
// flash messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the body of the password login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	PartyID     int64  `json:"party_id"`
	Email       string `json:"email"`
}
