package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

var (
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrInvalidProfileName = errors.New("profile name must match [a-z0-9][a-z0-9_-]{0,63}")
)

var profileNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ProfileService handles profile management business logic.
type ProfileService struct {
	store     repository.ProfileStore
	maxLength int
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store repository.ProfileStore, maxLength int) *ProfileService {
	return &ProfileService{store: store, maxLength: maxLength}
}

// Save validates and stores a profile under name, replacing any existing one.
func (s *ProfileService) Save(ctx context.Context, name string, req model.ProfileRequest) (model.Profile, error) {
	p := model.Profile{
		Name:             name,
		Length:           req.Length,
		RequireSymbol:    req.RequireSymbol,
		RequireUppercase: req.RequireUppercase,
		IgnoredChars:     normalizeChars(req.IgnoredChars),
		AllowedChars:     normalizeChars(req.AllowedChars),
	}
	if err := s.validate(p); err != nil {
		return model.Profile{}, err
	}

	if err := s.store.Save(ctx, &p); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// Get returns the profile stored under name.
func (s *ProfileService) Get(ctx context.Context, name string) (model.Profile, error) {
	p, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}
	return *p, nil
}

// List returns every stored profile ordered by name.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return profiles, nil
}

// Delete removes the profile stored under name.
func (s *ProfileService) Delete(ctx context.Context, name string) error {
	err := s.store.Delete(ctx, name)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrProfileNotFound
	}
	return err
}

// validate collects every problem with p. The result wraps ErrInvalidProfile
// and each individual error.
func (s *ProfileService) validate(p model.Profile) error {
	var merr *multierror.Error

	if !profileNamePattern.MatchString(p.Name) {
		merr = multierror.Append(merr, ErrInvalidProfileName)
	}
	if err := crypto.Check(profileOptions(p)); err != nil {
		merr = multierror.Append(merr, err)
	}
	if s.maxLength > 0 && p.Length > s.maxLength {
		merr = multierror.Append(merr, fmt.Errorf("%w (%d)", ErrLengthExceedsLimit, s.maxLength))
	}

	if merr == nil {
		return nil
	}
	merr.ErrorFormat = joinErrors
	return fmt.Errorf("%w: %w", ErrInvalidProfile, merr)
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
