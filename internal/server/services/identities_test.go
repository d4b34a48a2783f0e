package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type identityFixture struct {
	svc  *IdentityService
	ids  *memIdentities
	sess *memSessions
	mock sqlmock.Sqlmock
	db   *sql.DB
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	db, mock := newSQLMock(t)
	ids := newMemIdentities()
	sess := newMemSessions(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	m := &fakeManager{ids: ids, sess: sess}
	svc := NewIdentityService(db, m, auth.NewBcryptHasher(bcrypt.MinCost), NewGuard(logging.Nop()), logging.Nop())
	return &identityFixture{svc: svc, ids: ids, sess: sess, mock: mock, db: db}
}

func (f *identityFixture) seed(t *testing.T, in RegisterInput) models.Profile {
	t.Helper()
	p, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func bob() RegisterInput {
	return RegisterInput{LoginID: "bob", Password: "pw2", DisplayName: "Bob", Phone: "+200", Email: "b@x.io"}
}

func TestIdentity_ListAndGet(t *testing.T) {
	f := newIdentityFixture(t)
	a := f.seed(t, alice())
	b := f.seed(t, bob())

	list, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{a.OwnerKey, b.OwnerKey}, []string{list[0].OwnerKey, list[1].OwnerKey})

	got, err := f.svc.Get(context.Background(), b.OwnerKey)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestIdentity_GetSelf(t *testing.T) {
	f := newIdentityFixture(t)
	a := f.seed(t, alice())

	got, err := f.svc.GetSelf(context.Background(), auth.Principal{LoginID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = f.svc.GetSelf(context.Background(), auth.Principal{})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.svc.GetSelf(context.Background(), auth.Principal{LoginID: "ghost"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestIdentity_UpdateOwn(t *testing.T) {
	f := newIdentityFixture(t)
	a := f.seed(t, alice())

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	got, err := f.svc.Update(context.Background(), auth.Principal{LoginID: "alice"}, a.OwnerKey, models.IdentityUpdate{
		DisplayName: "Alice B.",
		Gender:      "F",
		Phone:       "+100",
		Email:       " ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", got.DisplayName)
	assert.Equal(t, "", got.Email)
	assert.Equal(t, "alice", got.LoginID)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestIdentity_UpdateRejections(t *testing.T) {
	f := newIdentityFixture(t)
	a := f.seed(t, alice())
	f.seed(t, bob())

	tests := []struct {
		name   string
		caller auth.Principal
		key    string
		upd    models.IdentityUpdate
		want   error
	}{
		{"unauthenticated", auth.Principal{}, a.OwnerKey, models.IdentityUpdate{Phone: "+100"}, common.ErrorUnauthorized},
		{"foreign", auth.Principal{LoginID: "bob"}, a.OwnerKey, models.IdentityUpdate{Phone: "+100"}, common.ErrorForbidden},
		{"foreign invalid payload", auth.Principal{LoginID: "bob"}, a.OwnerKey, models.IdentityUpdate{Phone: " "}, common.ErrorForbidden},
		{"foreign taken phone", auth.Principal{LoginID: "bob"}, a.OwnerKey, models.IdentityUpdate{Phone: "+200"}, common.ErrorForbidden},
		{"missing", auth.Principal{LoginID: "alice"}, "missing", models.IdentityUpdate{Phone: "+100"}, common.ErrorNotFound},
		{"blank phone", auth.Principal{LoginID: "alice"}, a.OwnerKey, models.IdentityUpdate{Phone: " "}, common.ErrorValidation},
		{"taken phone", auth.Principal{LoginID: "alice"}, a.OwnerKey, models.IdentityUpdate{Phone: "+200"}, common.ErrorDuplicate},
		{"taken email", auth.Principal{LoginID: "alice"}, a.OwnerKey, models.IdentityUpdate{Phone: "+100", Email: "b@x.io"}, common.ErrorDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.mock.ExpectBegin()
			f.mock.ExpectRollback()

			_, err := f.svc.Update(context.Background(), tt.caller, tt.key, tt.upd)
			assert.ErrorIs(t, err, tt.want)
			require.NoError(t, f.mock.ExpectationsWereMet())
		})
	}

	stored, err := f.ids.GetByKey(context.Background(), a.OwnerKey)
	require.NoError(t, err)
	assert.Equal(t, "+100", stored.Phone)
	assert.Equal(t, "a@x.io", stored.Email)
}

func TestIdentity_UpdateKeepsOwnPhoneAndEmail(t *testing.T) {
	f := newIdentityFixture(t)
	a := f.seed(t, alice())

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	_, err := f.svc.Update(context.Background(), auth.Principal{LoginID: "alice"}, a.OwnerKey, models.IdentityUpdate{
		DisplayName: "A",
		Phone:       "+100",
		Email:       "a@x.io",
	})
	require.NoError(t, err)
}

func TestIdentity_DeleteOwn(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	a := f.seed(t, alice())
	require.NoError(t, f.sess.Put(ctx, a.OwnerKey, "tok", time.Hour))

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.svc.Delete(ctx, auth.Principal{LoginID: "alice"}, a.OwnerKey))
	assert.Equal(t, 0, f.sess.count())

	_, err := f.svc.Get(ctx, a.OwnerKey)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestIdentity_DeleteForeignIsForbidden(t *testing.T) {
	f := newIdentityFixture(t)
	a := f.seed(t, alice())
	f.seed(t, bob())

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	err := f.svc.Delete(context.Background(), auth.Principal{LoginID: "bob"}, a.OwnerKey)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = f.svc.Get(context.Background(), a.OwnerKey)
	assert.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())
}
