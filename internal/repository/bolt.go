package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/vaultpass/passgen-go/internal/model"
)

var profilesBucket = []byte("profiles")

// BoltProfileStore stores profiles as JSON values in a bbolt file, keyed by name.
type BoltProfileStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltProfileStore opens or creates the database file at path.
func NewBoltProfileStore(path string) (*BoltProfileStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(profilesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating profiles bucket: %w", err)
	}

	return &BoltProfileStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Save inserts or replaces the profile, keeping the original CreatedAt.
func (s *BoltProfileStore) Save(ctx context.Context, p *model.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(profilesBucket)
		now := s.now()

		p.CreatedAt = now
		if existing := b.Get([]byte(p.Name)); existing != nil {
			var prev model.Profile
			if err := json.Unmarshal(existing, &prev); err != nil {
				return fmt.Errorf("decoding profile %q: %w", p.Name, err)
			}
			p.CreatedAt = prev.CreatedAt
		}
		p.UpdatedAt = now

		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return b.Put([]byte(p.Name), data)
	})
}

// Get retrieves a profile by name.
func (s *BoltProfileStore) Get(ctx context.Context, name string) (*model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p *model.Profile
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(profilesBucket).Get([]byte(name))
		if data == nil {
			return ErrProfileNotFound
		}
		p = &model.Profile{}
		return json.Unmarshal(data, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every profile in key order, which is name order.
func (s *BoltProfileStore) List(ctx context.Context) ([]model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var profiles []model.Profile
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(profilesBucket).ForEach(func(k, v []byte) error {
			var p model.Profile
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("decoding profile %q: %w", k, err)
			}
			profiles = append(profiles, p)
			return nil
		})
	})
	return profiles, err
}

// Delete removes a profile by name.
func (s *BoltProfileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(profilesBucket)
		if b.Get([]byte(name)) == nil {
			return ErrProfileNotFound
		}
		return b.Delete([]byte(name))
	})
}

// Close closes the database file.
func (s *BoltProfileStore) Close() error {
	return s.db.Close()
}
