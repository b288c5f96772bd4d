package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vaultpass/passgen-go/internal/model"
)

// MySQLProfileStore stores profiles in the password_profiles table.
type MySQLProfileStore struct {
	db *sql.DB
}

// NewMySQLProfileStore creates a new MySQLProfileStore.
func NewMySQLProfileStore(db *sql.DB) *MySQLProfileStore {
	return &MySQLProfileStore{db: db}
}

const upsertProfileQuery = `
	INSERT INTO password_profiles (name, length, require_symbol, require_uppercase, ignored_chars, allowed_chars)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		length            = VALUES(length),
		require_symbol    = VALUES(require_symbol),
		require_uppercase = VALUES(require_uppercase),
		ignored_chars     = VALUES(ignored_chars),
		allowed_chars     = VALUES(allowed_chars),
		updated_at        = CURRENT_TIMESTAMP`

const selectProfileColumns = `SELECT name, length, require_symbol, require_uppercase, ignored_chars, allowed_chars, created_at, updated_at
	FROM password_profiles`

// Save inserts or replaces the profile and reloads its timestamps.
func (s *MySQLProfileStore) Save(ctx context.Context, p *model.Profile) error {
	_, err := s.db.ExecContext(ctx, upsertProfileQuery,
		p.Name,
		p.Length,
		p.RequireSymbol,
		p.RequireUppercase,
		p.IgnoredChars,
		p.AllowedChars,
	)
	if err != nil {
		return err
	}

	stored, err := s.Get(ctx, p.Name)
	if err != nil {
		return err
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

// Get retrieves a profile by name.
func (s *MySQLProfileStore) Get(ctx context.Context, name string) (*model.Profile, error) {
	row := s.db.QueryRowContext(ctx, selectProfileColumns+` WHERE name = ?`, name)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all profiles ordered by name.
func (s *MySQLProfileStore) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.db.QueryContext(ctx, selectProfileColumns+` ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// Delete removes a profile by name.
func (s *MySQLProfileStore) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM password_profiles WHERE name = ?`, name)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// Close closes the underlying connection pool.
func (s *MySQLProfileStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(
		&p.Name, &p.Length, &p.RequireSymbol, &p.RequireUppercase,
		&p.IgnoredChars, &p.AllowedChars, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
