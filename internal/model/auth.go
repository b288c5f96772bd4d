package model

import "time"

// TokenRequest represents an admin token request.
type TokenRequest struct {
	Password string `json:"password"`
}

// TokenResponse carries a signed admin token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
