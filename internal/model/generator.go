package model

// GenerateRequest represents a password generation request.
// Pointer fields distinguish a missing value (take it from the profile or the
// default) from an explicit zero value.
type GenerateRequest struct {
	Profile          string  `json:"profile"`
	Length           *int    `json:"length"`
	RequireSymbol    *bool   `json:"require_symbol"`
	RequireUppercase *bool   `json:"require_uppercase"`
	IgnoredChars     *string `json:"ignored_chars"`
	AllowedChars     *string `json:"allowed_chars"`
	Count            int     `json:"count"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Passwords []string `json:"passwords"`
	Length    int      `json:"length"`
	Profile   string   `json:"profile,omitempty"`
}
