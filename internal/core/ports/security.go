package ports

import (
	"time"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// IssuedToken is a signed bearer token and the instant it stops being valid.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenClaims are the verified claims of a bearer token.
type TokenClaims struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(user *domain.User) (IssuedToken, error)
}

// TokenVerifier checks signature and expiry. It returns domain.ErrTokenExpired
// or domain.ErrTokenInvalid.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}
