// Package services contains the server-side business logic: the
// AuthService session lifecycle, the IdentityService resource operations
// and the ownership Guard between callers and mutations.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/identities"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// fallbackDummyHash is used only if the hasher cannot produce a dummy hash
// at startup.
const fallbackDummyHash = "$2a$10$......................AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// LoginResult is returned by a successful Login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	LoginID      string
	DisplayName  string
}

// AuthService implements register, login, refresh and logout.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenIssuer
	hasher      auth.PasswordHasher
	logger      logging.Logger
	now         func() time.Time

	// dummyHash is verified against when the login id is unknown, so both
	// failure paths pay for one comparison at the configured cost.
	dummyHash string
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenIssuer, hasher auth.PasswordHasher, logger logging.Logger) *AuthService {
	s := &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		logger:      logger.With("module", "auth_service"),
		now:         time.Now,
		dummyHash:   fallbackDummyHash,
	}
	if h, err := newDummyHash(hasher); err == nil {
		s.dummyHash = h
	} else {
		s.logger.Error(context.Background(), "dummy password hash", "error", err)
	}
	return s
}

// newDummyHash hashes a random password nobody knows.
func newDummyHash(hasher auth.PasswordHasher) (string, error) {
	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}
	return hasher.Hash(secret)
}

// Register creates an identity. Uniqueness is checked in the order login
// id, phone, email and the first collision is reported.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.Profile, error) {
	p, err := createIdentity(ctx, s.repomanager.Identities(s.db), s.hasher, in)
	if err != nil {
		return models.Profile{}, err
	}
	s.logger.Info(ctx, "identity registered", "login_id", p.LoginID, "owner_key", p.OwnerKey)
	return p, nil
}

// Login checks credentials and starts a new session, replacing any
// previous one. Unknown login ids and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	id, err := s.repomanager.Identities(s.db).GetByLoginID(ctx, loginID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, internalError("AUTH_LOGIN_FAILED", err, "login_id", loginID)
	}

	hash := s.dummyHash
	if id != nil {
		hash = id.PasswordHash
	}
	if !s.hasher.Verify(hash, password) || id == nil {
		s.logger.Warn(ctx, "login rejected", "login_id", loginID)
		return nil, common.ErrorUnauthorized
	}

	access, err := s.tokens.IssueAccessToken(id.LoginID)
	if err != nil {
		return nil, internalError("AUTH_TOKEN_ISSUE_FAILED", err, "login_id", loginID)
	}
	refresh, err := s.tokens.IssueRefreshToken(id.LoginID)
	if err != nil {
		return nil, internalError("AUTH_TOKEN_ISSUE_FAILED", err, "login_id", loginID)
	}

	if err := s.repomanager.Sessions(s.db).Put(ctx, id.OwnerKey, refresh, s.tokens.RefreshTTL()); err != nil {
		return nil, internalError("AUTH_SESSION_PUT_FAILED", err, "owner_key", id.OwnerKey)
	}

	s.logger.Info(ctx, "login succeeded", "login_id", id.LoginID)
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		LoginID:      id.LoginID,
		DisplayName:  id.DisplayName,
	}, nil
}

// Refresh exchanges the current refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, presented string) (string, error) {
	if !s.tokens.Validate(presented) {
		return "", common.ErrorUnauthorized
	}
	subject, err := s.tokens.ExtractSubject(presented)
	if err != nil {
		return "", common.ErrorUnauthorized
	}

	id, err := s.repomanager.Identities(s.db).GetByLoginID(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", internalError("AUTH_REFRESH_FAILED", err, "login_id", subject)
	}

	store := s.repomanager.Sessions(s.db)
	sess, err := store.Get(ctx, id.OwnerKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", internalError("AUTH_REFRESH_FAILED", err, "owner_key", id.OwnerKey)
	}

	if sess.Expired(s.now()) {
		if err := store.Remove(ctx, id.OwnerKey); err != nil {
			s.logger.Error(ctx, "removing expired session", "owner_key", id.OwnerKey, "error", err)
		}
		return "", common.ErrorUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(sess.RefreshToken), []byte(presented)) != 1 {
		s.logger.Warn(ctx, "refresh token does not match active session", "login_id", subject)
		return "", common.ErrorUnauthorized
	}

	access, err := s.tokens.IssueAccessToken(id.LoginID)
	if err != nil {
		return "", internalError("AUTH_TOKEN_ISSUE_FAILED", err, "login_id", subject)
	}
	return access, nil
}

// Logout ends the session of loginID. Only that identity may do so.
func (s *AuthService) Logout(ctx context.Context, caller auth.Principal, loginID string) error {
	if !caller.Resolved() {
		return common.ErrorUnauthorized
	}
	if caller.LoginID != loginID {
		return common.ErrorForbidden
	}

	id, err := s.repomanager.Identities(s.db).GetByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return internalError("AUTH_LOGOUT_FAILED", err, "login_id", loginID)
	}

	if err := s.repomanager.Sessions(s.db).Remove(ctx, id.OwnerKey); err != nil {
		return internalError("AUTH_LOGOUT_FAILED", err, "owner_key", id.OwnerKey)
	}

	s.logger.Info(ctx, "logged out", "login_id", loginID)
	return nil
}

// createIdentity is shared by Register and IdentityService.Create.
func createIdentity(ctx context.Context, repo identities.Repository, hasher auth.PasswordHasher, in RegisterInput) (models.Profile, error) {
	in, err := in.validate()
	if err != nil {
		return models.Profile{}, err
	}

	checks := []struct {
		field  string
		value  string
		exists func(context.Context, string) (bool, error)
	}{
		{"login_id", in.LoginID, repo.ExistsByLoginID},
		{"phone", in.Phone, repo.ExistsByPhone},
		{"email", in.Email, repo.ExistsByEmail},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		taken, err := c.exists(ctx, c.value)
		if err != nil {
			return models.Profile{}, internalError("IDENTITY_CREATE_FAILED", err, "field", c.field)
		}
		if taken {
			return models.Profile{}, common.NewDuplicateError(c.field)
		}
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return models.Profile{}, internalError("IDENTITY_HASH_FAILED", err, "login_id", in.LoginID)
	}

	id, err := repo.Create(ctx, models.NewIdentity{
		LoginID:      in.LoginID,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Gender:       in.Gender,
		Phone:        in.Phone,
		Email:        in.Email,
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return models.Profile{}, err
		}
		return models.Profile{}, internalError("IDENTITY_CREATE_FAILED", err, "login_id", in.LoginID)
	}
	return id.Profile(), nil
}
