package model

import "time"

// Profile is a named, stored set of generation parameters.
type Profile struct {
	Name             string    `json:"name"`
	Length           int       `json:"length"`
	RequireSymbol    bool      `json:"require_symbol"`
	RequireUppercase bool      `json:"require_uppercase"`
	IgnoredChars     string    `json:"ignored_chars,omitempty"`
	AllowedChars     string    `json:"allowed_chars,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileRequest represents the body of a profile create or replace request.
type ProfileRequest struct {
	Length           int    `json:"length"`
	RequireSymbol    bool   `json:"require_symbol"`
	RequireUppercase bool   `json:"require_uppercase"`
	IgnoredChars     string `json:"ignored_chars"`
	AllowedChars     string `json:"allowed_chars"`
}
