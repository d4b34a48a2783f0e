package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/identities"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/sessions"
)

// memIdentities is an in-memory identities.Repository.
type memIdentities struct {
	mu   sync.Mutex
	seq  int
	byID map[string]models.Identity

	getErr error
}

func newMemIdentities() *memIdentities {
	return &memIdentities{byID: map[string]models.Identity{}}
}

func (m *memIdentities) Create(_ context.Context, n models.NewIdentity) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byID {
		switch {
		case id.LoginID == n.LoginID:
			return nil, common.NewDuplicateError("login_id")
		case id.Phone == n.Phone:
			return nil, common.NewDuplicateError("phone")
		case n.Email != "" && id.Email == n.Email:
			return nil, common.NewDuplicateError("email")
		}
	}
	m.seq++
	now := time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	id := models.Identity{
		OwnerKey:     fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq),
		LoginID:      n.LoginID,
		PasswordHash: n.PasswordHash,
		DisplayName:  n.DisplayName,
		Gender:       n.Gender,
		Phone:        n.Phone,
		Email:        n.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[id.OwnerKey] = id
	return &id, nil
}

func (m *memIdentities) GetByKey(_ context.Context, key string) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	id, ok := m.byID[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &id, nil
}

func (m *memIdentities) GetByLoginID(_ context.Context, loginID string) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, id := range m.byID {
		if id.LoginID == loginID {
			return &id, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memIdentities) List(context.Context) ([]*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Identity, 0, len(m.byID))
	for _, id := range m.byID {
		id := id
		out = append(out, &id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerKey < out[j].OwnerKey })
	return out, nil
}

func (m *memIdentities) exists(match func(models.Identity) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byID {
		if match(id) {
			return true
		}
	}
	return false
}

func (m *memIdentities) ExistsByLoginID(_ context.Context, v string) (bool, error) {
	return m.exists(func(i models.Identity) bool { return i.LoginID == v }), nil
}

func (m *memIdentities) ExistsByPhone(_ context.Context, v string) (bool, error) {
	return m.exists(func(i models.Identity) bool { return i.Phone == v }), nil
}

func (m *memIdentities) ExistsByEmail(_ context.Context, v string) (bool, error) {
	return m.exists(func(i models.Identity) bool { return i.Email != "" && i.Email == v }), nil
}

func (m *memIdentities) Update(_ context.Context, key string, upd models.IdentityUpdate) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byID[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	id.DisplayName = upd.DisplayName
	id.Gender = upd.Gender
	id.Phone = upd.Phone
	id.Email = upd.Email
	id.UpdatedAt = id.UpdatedAt.Add(time.Minute)
	m.byID[key] = id
	return &id, nil
}

func (m *memIdentities) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[key]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, key)
	return nil
}

// memSessions is an in-memory sessions.Store with an adjustable clock.
type memSessions struct {
	mu   sync.Mutex
	now  time.Time
	byOw map[string]models.Session

	putErr error
}

func newMemSessions(now time.Time) *memSessions {
	return &memSessions{now: now, byOw: map[string]models.Session{}}
}

func (m *memSessions) Put(_ context.Context, owner, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	if ttl <= 0 {
		delete(m.byOw, owner)
		return nil
	}
	m.byOw[owner] = models.Session{
		ID:           fmt.Sprintf("s-%d", len(m.byOw)+1),
		Owner:        owner,
		RefreshToken: token,
		ExpiresAt:    m.now.Add(ttl),
		CreatedAt:    m.now,
	}
	return nil
}

func (m *memSessions) Get(_ context.Context, owner string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byOw[owner]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (m *memSessions) Remove(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byOw, owner)
	return nil
}

func (m *memSessions) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, s := range m.byOw {
		if s.Expired(now) {
			delete(m.byOw, k)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byOw)
}

type fakeManager struct {
	ids  *memIdentities
	sess *memSessions
}

func (f *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeManager) Identities(dbx.DBTX) identities.Repository    { return f.ids }
func (f *fakeManager) Sessions(dbx.DBTX) sessions.Store             { return f.sess }

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}
