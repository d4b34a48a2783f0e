package client

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/client/migrations"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyLoginID      = "login_id"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite database at dsn and migrates it. The
// parent directory of a file path is created as needed.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadTokens reads the stored session. A missing session yields zero
// Tokens.
func LoadTokens(ctx context.Context, repo metadata.Repository) (Tokens, error) {
	var t Tokens
	for key, dst := range map[string]*string{
		keyLoginID:      &t.LoginID,
		keyAccessToken:  &t.AccessToken,
		keyRefreshToken: &t.RefreshToken,
	} {
		v, err := repo.Get(ctx, key)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return Tokens{}, err
		}
		*dst = string(v)
	}
	return t, nil
}

func SaveTokens(ctx context.Context, repo metadata.Repository, t Tokens) error {
	if err := repo.Set(ctx, keyLoginID, []byte(t.LoginID)); err != nil {
		return err
	}
	if err := repo.Set(ctx, keyAccessToken, []byte(t.AccessToken)); err != nil {
		return err
	}
	return repo.Set(ctx, keyRefreshToken, []byte(t.RefreshToken))
}

func ClearTokens(ctx context.Context, repo metadata.Repository) error {
	return repo.Clear(ctx)
}
