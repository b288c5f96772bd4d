package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

// memoryStore is an in-memory repository.ProfileStore for tests.
type memoryStore struct {
	mu       sync.Mutex
	profiles map[string]model.Profile
}

func newMemoryStore(profiles ...model.Profile) *memoryStore {
	s := &memoryStore{profiles: make(map[string]model.Profile)}
	for _, p := range profiles {
		s.profiles[p.Name] = p
	}
	return s
}

func (s *memoryStore) Save(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p.CreatedAt = now
	if prev, ok := s.profiles[p.Name]; ok {
		p.CreatedAt = prev.CreatedAt
	}
	p.UpdatedAt = now
	s.profiles[p.Name] = *p
	return nil
}

func (s *memoryStore) Get(_ context.Context, name string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[name]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memoryStore) List(_ context.Context) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Profile
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[name]; !ok {
		return repository.ErrProfileNotFound
	}
	delete(s.profiles, name)
	return nil
}

func (s *memoryStore) Close() error { return nil }
