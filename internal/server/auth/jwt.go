// Package auth holds the credential primitives: the JWT TokenIssuer, the
// bcrypt PasswordHasher and the request Principal.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS512

// tokenPrecision is the resolution of iat and exp.
const tokenPrecision = time.Microsecond

func init() {
	jwt.TimePrecision = tokenPrecision
}

// TokenIssuer signs and checks HS512 tokens carrying only sub, iat and exp.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu        sync.Mutex
	lastIssue time.Time
}

type IssuerOption func(*TokenIssuer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(t *TokenIssuer) { t.now = now }
}

func NewTokenIssuer(secret []byte, accessTTL, refreshTTL time.Duration, opts ...IssuerOption) *TokenIssuer {
	t := &TokenIssuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *TokenIssuer) IssueAccessToken(subject string) (string, error) {
	return t.issue(subject, t.accessTTL)
}

func (t *TokenIssuer) IssueRefreshToken(subject string) (string, error) {
	return t.issue(subject, t.refreshTTL)
}

// RefreshTTL is the lifetime given to refresh tokens and their sessions.
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

// issuedAt returns the current time, moved forward when needed so that no
// two tokens from this issuer share an iat.
func (t *TokenIssuer) issuedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().Truncate(tokenPrecision)
	if !now.After(t.lastIssue) {
		now = t.lastIssue.Add(tokenPrecision)
	}
	t.lastIssue = now
	return now
}

func (t *TokenIssuer) issue(subject string, ttl time.Duration) (string, error) {
	now := t.issuedAt()
	token := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Validate reports whether token is well formed, signed with our secret
// and not yet expired.
func (t *TokenIssuer) Validate(token string) bool {
	_, err := t.parse(token)
	return err == nil
}

// ExtractSubject returns the sub claim of a valid token. Expired tokens
// yield common.ErrTokenExpired, everything else common.ErrInvalidToken.
func (t *TokenIssuer) ExtractSubject(token string) (string, error) {
	claims, err := t.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (t *TokenIssuer) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
