package repository

import (
	"context"
	"errors"

	"github.com/vaultpass/passgen-go/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore persists generation profiles.
type ProfileStore interface {
	// Save creates the profile or replaces the stored one with the same name.
	// CreatedAt and UpdatedAt are set on p.
	Save(ctx context.Context, p *model.Profile) error
	Get(ctx context.Context, name string) (*model.Profile, error)
	// List returns every profile ordered by name.
	List(ctx context.Context) ([]model.Profile, error)
	Delete(ctx context.Context, name string) error
	Close() error
}
