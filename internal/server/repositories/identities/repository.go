// Package identities persists Identity records.
package identities

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the credential store. Lookups of an absent identity return
// common.ErrorNotFound; unique-constraint collisions return a
// *common.DuplicateError naming the field.
type Repository interface {
	Create(ctx context.Context, in models.NewIdentity) (*models.Identity, error)
	GetByKey(ctx context.Context, ownerKey string) (*models.Identity, error)
	GetByLoginID(ctx context.Context, loginID string) (*models.Identity, error)
	List(ctx context.Context) ([]*models.Identity, error)
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, ownerKey string, upd models.IdentityUpdate) (*models.Identity, error)
	Delete(ctx context.Context, ownerKey string) error
}
