package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

type fakeAuth struct {
	registerIn  services.RegisterInput
	registerErr error

	loginRes *services.LoginResult
	loginErr error

	refreshOut string
	refreshErr error

	logoutCaller auth.Principal
	logoutLogin  string
	logoutErr    error
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (models.Profile, error) {
	f.registerIn = in
	if f.registerErr != nil {
		return models.Profile{}, f.registerErr
	}
	return models.Profile{OwnerKey: "k1", LoginID: in.LoginID, Phone: in.Phone, Email: in.Email}, nil
}

func (f *fakeAuth) Login(context.Context, string, string) (*services.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeAuth) Refresh(context.Context, string) (string, error) {
	return f.refreshOut, f.refreshErr
}

func (f *fakeAuth) Logout(_ context.Context, caller auth.Principal, loginID string) error {
	f.logoutCaller, f.logoutLogin = caller, loginID
	return f.logoutErr
}

type fakeIdentities struct {
	profiles []models.Profile
	err      error

	lastCaller auth.Principal
	lastKey    string
	lastUpdate models.IdentityUpdate
}

func (f *fakeIdentities) List(context.Context) ([]models.Profile, error) {
	return f.profiles, f.err
}

func (f *fakeIdentities) Get(_ context.Context, key string) (models.Profile, error) {
	f.lastKey = key
	if f.err != nil {
		return models.Profile{}, f.err
	}
	return models.Profile{OwnerKey: key, LoginID: "alice"}, nil
}

func (f *fakeIdentities) GetSelf(_ context.Context, caller auth.Principal) (models.Profile, error) {
	f.lastCaller = caller
	if f.err != nil {
		return models.Profile{}, f.err
	}
	return models.Profile{OwnerKey: "k1", LoginID: caller.LoginID}, nil
}

func (f *fakeIdentities) Create(_ context.Context, in services.RegisterInput) (models.Profile, error) {
	if f.err != nil {
		return models.Profile{}, f.err
	}
	return models.Profile{OwnerKey: "k2", LoginID: in.LoginID}, nil
}

func (f *fakeIdentities) Update(_ context.Context, caller auth.Principal, key string, upd models.IdentityUpdate) (models.Profile, error) {
	f.lastCaller, f.lastKey, f.lastUpdate = caller, key, upd
	if f.err != nil {
		return models.Profile{}, f.err
	}
	return models.Profile{OwnerKey: key, LoginID: caller.LoginID, DisplayName: upd.DisplayName, Phone: upd.Phone}, nil
}

func (f *fakeIdentities) Delete(_ context.Context, caller auth.Principal, key string) error {
	f.lastCaller, f.lastKey = caller, key
	return f.err
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
