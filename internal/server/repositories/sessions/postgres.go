package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

type PostgresStore struct {
	db dbx.DBTX
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Put upserts on the unique owner_key so concurrent logins of the same
// identity leave exactly one row, the last writer's. A non-positive ttl
// removes the row instead.
func (s *PostgresStore) Put(ctx context.Context, owner, refreshToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Remove(ctx, owner)
	}

	query :=
		`INSERT INTO sessions (id, owner_key, refresh_token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (owner_key) DO UPDATE
		 SET id = EXCLUDED.id, refresh_token = EXCLUDED.refresh_token,
		     expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`

	now := clock().UTC()
	if _, err := s.db.ExecContext(ctx, query, newSessionID(), owner, refreshToken, now.Add(ttl), now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, owner string) (*models.Session, error) {
	if _, err := uuid.Parse(owner); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, owner_key, refresh_token, expires_at, created_at FROM sessions
		 WHERE owner_key = $1`

	sess := &models.Session{}
	err := s.db.QueryRowContext(ctx, query, owner).
		Scan(&sess.ID, &sess.Owner, &sess.RefreshToken, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) Remove(ctx context.Context, owner string) error {
	if _, err := uuid.Parse(owner); err != nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner_key = $1`, owner); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
