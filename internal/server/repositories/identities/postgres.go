package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const identityColumns = `owner_key, login_id, password_hash, display_name, gender, phone, email, created_at, updated_at`

// constraint name -> field reported to the caller
var uniqueConstraints = map[string]string{
	"identities_login_id_key": "login_id",
	"identities_phone_key":    "phone",
	"identities_email_key":    "email",
}

// newOwnerKey is a seam for tests.
var newOwnerKey = uuid.NewString

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, in models.NewIdentity) (*models.Identity, error) {
	query :=
		`INSERT INTO identities (owner_key, login_id, password_hash, display_name, gender, phone, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING ` + identityColumns

	row := r.db.QueryRowContext(ctx, query,
		newOwnerKey(), in.LoginID, in.PasswordHash, in.DisplayName, in.Gender, in.Phone, nullable(in.Email))

	id, err := scanIdentity(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByKey(ctx context.Context, ownerKey string) (*models.Identity, error) {
	if _, err := uuid.Parse(ownerKey); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + identityColumns + ` FROM identities WHERE owner_key = $1`
	return r.getOne(ctx, query, ownerKey)
}

func (r *PostgresRepository) GetByLoginID(ctx context.Context, loginID string) (*models.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE login_id = $1`
	return r.getOne(ctx, query, loginID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Identity, error) {
	id, err := scanIdentity(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities ORDER BY created_at, owner_key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Identity, 0)
	for rows.Next() {
		id, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE login_id = $1)`, loginID)
}

func (r *PostgresRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE phone = $1)`, phone)
}

// ExistsByEmail compares case-sensitively.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE email = $1)`, email)
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) Update(ctx context.Context, ownerKey string, upd models.IdentityUpdate) (*models.Identity, error) {
	if _, err := uuid.Parse(ownerKey); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE identities
		 SET display_name = $2, gender = $3, phone = $4, email = $5, updated_at = now()
		 WHERE owner_key = $1
		 RETURNING ` + identityColumns

	row := r.db.QueryRowContext(ctx, query, ownerKey, upd.DisplayName, upd.Gender, upd.Phone, nullable(upd.Email))

	id, err := scanIdentity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, mapWriteError(err)
	}
	return id, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerKey string) error {
	if _, err := uuid.Parse(ownerKey); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE owner_key = $1`, ownerKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdentity(s scanner) (*models.Identity, error) {
	var (
		id    models.Identity
		email sql.NullString
	)
	err := s.Scan(&id.OwnerKey, &id.LoginID, &id.PasswordHash, &id.DisplayName, &id.Gender,
		&id.Phone, &email, &id.CreatedAt, &id.UpdatedAt)
	if err != nil {
		return nil, err
	}
	id.Email = email.String
	return &id, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if field, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return common.NewDuplicateError(field)
		}
		return common.NewDuplicateError("identity")
	}
	return fmt.Errorf("db error: %w", err)
}

// nullable stores "" as NULL so several identities may lack an email.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
