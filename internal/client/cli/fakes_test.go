package cli

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

type fakeClient struct {
	tokens client.Tokens
	closed bool

	registered *api.RegisterRequest
	loginID    string
	password   string
	updated    *api.UpdateIdentityRequest
	deleted    string

	identities map[string]api.Identity
	err        error
}

func newFakeClient() *fakeClient {
	return &fakeClient{identities: map[string]api.Identity{}}
}

func (f *fakeClient) Close() error              { f.closed = true; return nil }
func (f *fakeClient) Tokens() client.Tokens     { return f.tokens }
func (f *fakeClient) SetTokens(t client.Tokens) { f.tokens = t }

func (f *fakeClient) Register(_ context.Context, req *api.RegisterRequest) (*api.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.registered = req
	return &api.Identity{OwnerKey: "k-new", LoginID: req.LoginID}, nil
}

func (f *fakeClient) Login(_ context.Context, loginID string, password []byte) (*api.LoginResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.loginID, f.password = loginID, string(password)
	f.tokens = client.Tokens{LoginID: loginID, AccessToken: "access", RefreshToken: "refresh"}
	return &api.LoginResponse{AccessToken: "access", RefreshToken: "refresh", LoginID: loginID, DisplayName: "Alice"}, nil
}

func (f *fakeClient) Refresh(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.tokens.AccessToken = "access-2"
	return nil
}

func (f *fakeClient) Logout(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.tokens = client.Tokens{}
	return nil
}

func (f *fakeClient) Me(context.Context) (*api.Identity, error) {
	if !f.tokens.LoggedIn() {
		return nil, client.ErrNotLoggedIn
	}
	for _, id := range f.identities {
		if id.LoginID == f.tokens.LoginID {
			return &id, nil
		}
	}
	return nil, client.ErrNotFound
}

func (f *fakeClient) ListIdentities(context.Context) ([]api.Identity, error) {
	out := make([]api.Identity, 0, len(f.identities))
	for _, id := range f.identities {
		out = append(out, id)
	}
	return out, f.err
}

func (f *fakeClient) GetIdentity(_ context.Context, key string) (*api.Identity, error) {
	id, ok := f.identities[key]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &id, nil
}

func (f *fakeClient) UpdateIdentity(_ context.Context, req *api.UpdateIdentityRequest) (*api.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = req
	id := f.identities[req.OwnerKey]
	id.DisplayName, id.Gender, id.Phone, id.Email = req.DisplayName, req.Gender, req.Phone, req.Email
	f.identities[req.OwnerKey] = id
	return &id, nil
}

func (f *fakeClient) DeleteIdentity(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = key
	delete(f.identities, key)
	return nil
}

type memMetadata struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemMetadata() *memMetadata {
	return &memMetadata{data: map[string][]byte{}}
}

func (m *memMetadata) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (m *memMetadata) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memMetadata) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memMetadata) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

// connectTo returns a Connector that hands out c and store and records the
// config it was called with.
func connectTo(c *fakeClient, store *memMetadata, seen **config.Config) Connector {
	return func(_ context.Context, cfg *config.Config) (client.Client, metadata.Repository, func() error, error) {
		if seen != nil {
			*seen = cfg
		}
		return c, store, c.Close, nil
	}
}
