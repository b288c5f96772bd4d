package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/metrics"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

const MaxCount = 100

var (
	ErrInvalidCount        = fmt.Errorf("count must be between 1 and %d", MaxCount)
	ErrLengthExceedsLimit  = errors.New("password length exceeds the configured limit")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfilesUnavailable = errors.New("profile storage is not configured")
)

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	gen       *crypto.Generator
	profiles  repository.ProfileStore
	maxLength int
}

// NewGeneratorService creates a new GeneratorService. profiles may be nil, in
// which case requests naming a profile fail with ErrProfilesUnavailable.
// maxLength caps the password length; zero leaves only the generator's limit.
func NewGeneratorService(gen *crypto.Generator, profiles repository.ProfileStore, maxLength int) *GeneratorService {
	return &GeneratorService{gen: gen, profiles: profiles, maxLength: maxLength}
}

// Generate produces one or more passwords for the given request.
func (s *GeneratorService) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	start := time.Now()
	resp, err := s.generate(ctx, req)
	metrics.ObserveGenerate(err, time.Since(start), len(resp.Passwords)*resp.Length)
	return resp, err
}

func (s *GeneratorService) generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := crypto.DefaultOptions()
	if req.Profile != "" {
		p, err := s.lookupProfile(ctx, req.Profile)
		if err != nil {
			return model.GenerateResponse{}, err
		}
		opts = profileOptions(*p)
	}
	applyOverrides(&opts, req)

	count := req.Count
	if count == 0 {
		count = 1
	}
	if count < 1 || count > MaxCount {
		return model.GenerateResponse{}, ErrInvalidCount
	}

	if err := crypto.Validate(opts); err != nil {
		return model.GenerateResponse{}, err
	}
	if s.maxLength > 0 && opts.Length > s.maxLength {
		return model.GenerateResponse{}, fmt.Errorf("%w (%d)", ErrLengthExceedsLimit, s.maxLength)
	}

	passwords := make([]string, 0, count)
	for range count {
		password, err := s.gen.Generate(opts)
		if err != nil {
			return model.GenerateResponse{}, err
		}
		passwords = append(passwords, password)
	}

	return model.GenerateResponse{
		Passwords: passwords,
		Length:    opts.Length,
		Profile:   req.Profile,
	}, nil
}

func (s *GeneratorService) lookupProfile(ctx context.Context, name string) (*model.Profile, error) {
	if s.profiles == nil {
		return nil, ErrProfilesUnavailable
	}
	p, err := s.profiles.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// applyOverrides copies every field set in req onto opts. Setting one of the
// character filters clears the other unless the request sets both.
func applyOverrides(opts *crypto.Options, req model.GenerateRequest) {
	if req.Length != nil {
		opts.Length = *req.Length
	}
	if req.RequireSymbol != nil {
		opts.RequireSymbol = *req.RequireSymbol
	}
	if req.RequireUppercase != nil {
		opts.RequireUppercase = *req.RequireUppercase
	}
	if req.IgnoredChars != nil {
		opts.IgnoredChars = normalizeChars(*req.IgnoredChars)
		if req.AllowedChars == nil {
			opts.AllowedChars = ""
		}
	}
	if req.AllowedChars != nil {
		opts.AllowedChars = normalizeChars(*req.AllowedChars)
		if req.IgnoredChars == nil {
			opts.IgnoredChars = ""
		}
	}
}

func profileOptions(p model.Profile) crypto.Options {
	return crypto.Options{
		Length:           p.Length,
		RequireSymbol:    p.RequireSymbol,
		RequireUppercase: p.RequireUppercase,
		IgnoredChars:     p.IgnoredChars,
		AllowedChars:     p.AllowedChars,
	}
}

// normalizeChars composes character lists to NFC so that "é" typed as e plus
// a combining accent matches the precomposed rune.
func normalizeChars(s string) string {
	return norm.NFC.String(s)
}
