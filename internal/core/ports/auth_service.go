package ports

import (
	"context"
	"time"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// IdentityResolver turns a raw bearer token into the caller's identity.
// Every failure is reported as domain.ErrUnauthenticated (possibly wrapped).
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (domain.Identity, error)
}
