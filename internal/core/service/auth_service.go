package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// AuthService implements registration, login and per-request identity resolution.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	verifier ports.TokenVerifier
	log      zerolog.Logger
	now      func() time.Time

	// dummyHash is verified against on unknown emails so that both login
	// failure paths cost one hash comparison.
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	verifier ports.TokenVerifier,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		log:      log,
		now:      time.Now,
	}
}

// Register creates a user with the default role. Callers cannot choose a role.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.create(ctx, email, password, domain.RoleUser)
}

// EnsureAdmin creates an admin account when none exists for email. An existing
// account is left as is.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("user_id", existing.ID).Msg("bootstrap admin email belongs to a non-admin account")
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.create(ctx, email, password, domain.RoleAdmin)
}

func (s *AuthService) create(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domain.ErrEmptyPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login checks credentials and issues a token. Unknown email and wrong password
// both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummy())
			s.log.Info().Msg("login failed: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("user_id", user.ID).Msg("login failed: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	issued, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &ports.LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("catalog-api:no-such-user")
		if err != nil {
			s.log.Error().Err(err).Msg("failed to prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// ResolveIdentity verifies token and re-reads the user so that the returned
// role is the one currently stored. Any failure is domain.ErrUnauthenticated.
func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
		}
		// Store outage or cancelled request: still reject, keep the cause for logs.
		return domain.Identity{}, fmt.Errorf("%w: resolve user: %w", domain.ErrUnauthenticated, err)
	}
	if user.Email != domain.NormalizeEmail(claims.Email) {
		return domain.Identity{}, fmt.Errorf("%w: email claim does not match user", domain.ErrUnauthenticated)
	}

	return domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

var validate = validator.New()

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return nil
}
