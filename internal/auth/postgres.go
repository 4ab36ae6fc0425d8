package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fbauth.dev/internal/ids"
)

var _ AccountStore = (*PGStore)(nil)

// PGStore implements AccountStore using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Load(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, facebook_id, created_at, updated_at from users where email=$1`,
		normalizeEmail(email))
	return scanAccount(row)
}

// Find loads an account by identifier.
func (s *PGStore) Find(ctx context.Context, id string) (*Account, error) {
	if !ids.Valid(id) {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, facebook_id, created_at, updated_at from users where id=$1`, id)
	return scanAccount(row)
}

// CreateFromProvider inserts the account, or refreshes the provider link of a
// row another login inserted concurrently for the same email.
func (s *PGStore) CreateFromProvider(ctx context.Context, params CreateAccountParams) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`insert into users(id, name, email, facebook_id) values($1,$2,$3,$4)
		 on conflict (email) do update
		 set name = excluded.name, facebook_id = excluded.facebook_id, updated_at = now()
		 returning id`,
		ids.New(), nullString(params.Name), normalizeEmail(params.Email), nullString(params.ProviderID),
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *PGStore) UpdateWithProvider(ctx context.Context, params UpdateAccountParams) error {
	res, err := s.db.ExecContext(ctx,
		`update users set name=$2, facebook_id=$3, updated_at=now() where id=$1`,
		params.ID, nullString(params.Name), nullString(params.ProviderID),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (*Account, error) {
	var (
		a          Account
		name       sql.NullString
		providerID sql.NullString
	)
	if err := row.Scan(&a.ID, &name, &a.Email, &providerID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Name = name.String
	a.ProviderID = providerID.String
	return &a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
