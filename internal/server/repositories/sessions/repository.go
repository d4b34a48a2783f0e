// Package sessions tracks the single active refresh session per identity.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/oklog/ulid/v2"
)

// Store holds at most one Session per owner.
type Store interface {
	// Put replaces any existing session of owner. With ttl <= 0 the
	// session would be born expired, so Put removes it instead.
	Put(ctx context.Context, owner, refreshToken string, ttl time.Duration) error
	// Get returns common.ErrorNotFound when owner has no session.
	Get(ctx context.Context, owner string) (*models.Session, error)
	// Remove is idempotent.
	Remove(ctx context.Context, owner string) error
	// SweepExpired deletes every session that expired before now and
	// reports how many were removed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// seams for tests
var (
	newSessionID = func() string { return ulid.Make().String() }
	clock        = time.Now
)
