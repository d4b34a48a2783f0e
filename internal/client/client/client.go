package client

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
)

// Tokens is the client's view of a session.
type Tokens struct {
	LoginID      string
	AccessToken  string
	RefreshToken string
}

func (t Tokens) LoggedIn() bool { return t.AccessToken != "" }

type Client interface {
	Close() error
	Tokens() Tokens
	SetTokens(Tokens)

	Register(ctx context.Context, req *api.RegisterRequest) (*api.Identity, error)
	Login(ctx context.Context, loginID string, password []byte) (*api.LoginResponse, error)
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error

	Me(ctx context.Context) (*api.Identity, error)
	ListIdentities(ctx context.Context) ([]api.Identity, error)
	GetIdentity(ctx context.Context, ownerKey string) (*api.Identity, error)
	UpdateIdentity(ctx context.Context, req *api.UpdateIdentityRequest) (*api.Identity, error)
	DeleteIdentity(ctx context.Context, ownerKey string) error
}
