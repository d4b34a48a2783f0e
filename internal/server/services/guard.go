package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/identities"
)

// Guard allows a mutation of an identity only to that identity itself.
type Guard struct {
	logger logging.Logger
}

func NewGuard(logger logging.Logger) *Guard {
	return &Guard{logger: logger.With("module", "guard")}
}

// AuthorizeMutation resolves the target identity and checks the caller
// owns it. It returns the target so the mutation can proceed without a
// second lookup.
func (g *Guard) AuthorizeMutation(ctx context.Context, repo identities.Repository, caller auth.Principal, ownerKey string) (*models.Identity, error) {
	if !caller.Resolved() {
		return nil, common.ErrorUnauthorized
	}

	target, err := repo.GetByKey(ctx, ownerKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, internalError("GUARD_LOOKUP_FAILED", err, "owner_key", ownerKey)
	}

	if target.LoginID != caller.LoginID {
		g.logger.Warn(ctx, "mutation of foreign identity denied", "caller", caller.LoginID, "owner_key", ownerKey)
		return nil, common.ErrorForbidden
	}
	return target, nil
}
