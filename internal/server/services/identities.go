package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// IdentityService exposes identities as resources. Reads are open to any
// authenticated caller; update and delete go through the Guard.
type IdentityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	guard       *Guard
	logger      logging.Logger
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, guard *Guard, logger logging.Logger) *IdentityService {
	return &IdentityService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		guard:       guard,
		logger:      logger.With("module", "identity_service"),
	}
}

func (s *IdentityService) List(ctx context.Context) ([]models.Profile, error) {
	list, err := s.repomanager.Identities(s.db).List(ctx)
	if err != nil {
		return nil, internalError("IDENTITY_LIST_FAILED", err)
	}
	out := make([]models.Profile, 0, len(list))
	for _, id := range list {
		out = append(out, id.Profile())
	}
	return out, nil
}

func (s *IdentityService) Get(ctx context.Context, ownerKey string) (models.Profile, error) {
	id, err := s.repomanager.Identities(s.db).GetByKey(ctx, ownerKey)
	if err != nil {
		return models.Profile{}, lookupError(err, "owner_key", ownerKey)
	}
	return id.Profile(), nil
}

// GetSelf returns the caller's own identity.
func (s *IdentityService) GetSelf(ctx context.Context, caller auth.Principal) (models.Profile, error) {
	if !caller.Resolved() {
		return models.Profile{}, common.ErrorUnauthorized
	}
	id, err := s.repomanager.Identities(s.db).GetByLoginID(ctx, caller.LoginID)
	if err != nil {
		return models.Profile{}, lookupError(err, "login_id", caller.LoginID)
	}
	return id.Profile(), nil
}

// Create registers an identity on behalf of an authenticated caller, with
// the same rules as AuthService.Register.
func (s *IdentityService) Create(ctx context.Context, in RegisterInput) (models.Profile, error) {
	p, err := createIdentity(ctx, s.repomanager.Identities(s.db), s.hasher, in)
	if err != nil {
		return models.Profile{}, err
	}
	s.logger.Info(ctx, "identity created", "login_id", p.LoginID, "owner_key", p.OwnerKey)
	return p, nil
}

// Update changes the mutable fields of the caller's own identity. Phone
// and email uniqueness are rechecked only when the value changes; a blank
// email clears it.
func (s *IdentityService) Update(ctx context.Context, caller auth.Principal, ownerKey string, upd models.IdentityUpdate) (models.Profile, error) {
	return dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (models.Profile, error) {
		repo := s.repomanager.Identities(tx)

		target, err := s.guard.AuthorizeMutation(ctx, repo, caller, ownerKey)
		if err != nil {
			return models.Profile{}, err
		}

		upd, err := validateUpdate(upd)
		if err != nil {
			return models.Profile{}, err
		}

		if upd.Phone != target.Phone {
			taken, err := repo.ExistsByPhone(ctx, upd.Phone)
			if err != nil {
				return models.Profile{}, internalError("IDENTITY_UPDATE_FAILED", err, "owner_key", ownerKey)
			}
			if taken {
				return models.Profile{}, common.NewDuplicateError("phone")
			}
		}
		if upd.Email != "" && upd.Email != target.Email {
			taken, err := repo.ExistsByEmail(ctx, upd.Email)
			if err != nil {
				return models.Profile{}, internalError("IDENTITY_UPDATE_FAILED", err, "owner_key", ownerKey)
			}
			if taken {
				return models.Profile{}, common.NewDuplicateError("email")
			}
		}

		updated, err := repo.Update(ctx, ownerKey, upd)
		if err != nil {
			if errors.Is(err, common.ErrorDuplicate) || errors.Is(err, common.ErrorNotFound) {
				return models.Profile{}, err
			}
			return models.Profile{}, internalError("IDENTITY_UPDATE_FAILED", err, "owner_key", ownerKey)
		}

		s.logger.Info(ctx, "identity updated", "owner_key", ownerKey)
		return updated.Profile(), nil
	})
}

// Delete removes the caller's own identity together with its session.
func (s *IdentityService) Delete(ctx context.Context, caller auth.Principal, ownerKey string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Identities(tx)

		if _, err := s.guard.AuthorizeMutation(ctx, repo, caller, ownerKey); err != nil {
			return err
		}

		if err := s.repomanager.Sessions(tx).Remove(ctx, ownerKey); err != nil {
			return internalError("IDENTITY_DELETE_FAILED", err, "owner_key", ownerKey)
		}
		if err := repo.Delete(ctx, ownerKey); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return internalError("IDENTITY_DELETE_FAILED", err, "owner_key", ownerKey)
		}

		s.logger.Info(ctx, "identity deleted", "owner_key", ownerKey)
		return nil
	})
}

func lookupError(err error, key, value string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return internalError("IDENTITY_LOOKUP_FAILED", err, key, value)
}
