package service

import (
	"context"
	"errors"
	"time"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
)

// ScopeProfilesWrite allows creating, replacing and deleting profiles.
const ScopeProfilesWrite = "profiles:write"

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrPasswordRequired   = errors.New("password is required")
	ErrAuthDisabled       = errors.New("admin authentication is not configured")
)

// AuthService issues admin tokens.
type AuthService struct {
	adminHash string
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService. adminHash is an Argon2id PHC
// string; when empty every token request fails with ErrAuthDisabled.
func NewAuthService(adminHash, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		adminHash: adminHash,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// IssueToken verifies the admin password and returns a signed token.
func (s *AuthService) IssueToken(ctx context.Context, req model.TokenRequest) (model.TokenResponse, error) {
	if s.adminHash == "" {
		return model.TokenResponse{}, ErrAuthDisabled
	}
	if req.Password == "" {
		return model.TokenResponse{}, ErrPasswordRequired
	}
	if err := ctx.Err(); err != nil {
		return model.TokenResponse{}, err
	}

	match, err := crypto.VerifySecret(req.Password, s.adminHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.jwtExpiry)
	token, err := crypto.GenerateToken("admin", ScopeProfilesWrite, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Truncate(time.Second),
	}, nil
}
