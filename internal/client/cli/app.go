package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
)

// Connector opens the API client and the local session store for cfg. The
// returned func releases both.
type Connector func(ctx context.Context, cfg *config.Config) (client.Client, metadata.Repository, func() error, error)

// DefaultConnector dials the server over gRPC and opens the SQLite session
// file.
func DefaultConnector(ctx context.Context, cfg *config.Config) (client.Client, metadata.Repository, func() error, error) {
	db, err := client.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	closer := func() error {
		return errors.Join(c.Close(), db.Close())
	}
	return c, metadata.NewSQLiteRepository(db), closer, nil
}

// App is the state of one CLI invocation.
type App struct {
	client  client.Client
	store   metadata.Repository
	closer  func() error
	reader  *bufio.Reader
	out     io.Writer
	timeout time.Duration
	loaded  client.Tokens
}

func newApp(ctx context.Context, cfg *config.Config, connect Connector, in io.Reader, out io.Writer) (*App, error) {
	c, store, closer, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tokens, err := client.LoadTokens(ctx, store)
	if err != nil {
		_ = closer()
		return nil, err
	}
	c.SetTokens(tokens)

	return &App{
		client:  c,
		store:   store,
		closer:  closer,
		reader:  bufio.NewReader(in),
		out:     out,
		timeout: cfg.RequestTimeout,
		loaded:  tokens,
	}, nil
}

// call runs fn with the request timeout and then stores the session if it
// changed, including after a transparent refresh.
func (a *App) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return errors.Join(fn(ctx), a.persist(context.WithoutCancel(ctx)))
}

func (a *App) persist(ctx context.Context) error {
	current := a.client.Tokens()
	if current == a.loaded {
		return nil
	}
	var err error
	if current.LoggedIn() {
		err = client.SaveTokens(ctx, a.store, current)
	} else {
		err = client.ClearTokens(ctx, a.store)
	}
	if err == nil {
		a.loaded = current
	}
	return err
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}
