package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

const (
	DefaultTokenTTL = 60 * time.Minute
	DefaultIssuer   = "catalog-api"
)

var errNoSecret = errors.New("token: signing secret is empty")

// TokenConfig is shared by the issuer and the verifier. Both must be built
// from the same value or every token fails signature verification.
type TokenConfig struct {
	Secret []byte
	// Algorithms lists the accepted HMAC algorithms; the first one signs.
	Algorithms []string
	TTL        time.Duration
	Issuer     string
}

func (c TokenConfig) withDefaults() (TokenConfig, error) {
	if len(c.Secret) == 0 {
		return c, errNoSecret
	}
	if len(c.Algorithms) == 0 {
		c.Algorithms = []string{jwt.SigningMethodHS256.Alg()}
	}
	for _, alg := range c.Algorithms {
		if _, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC); !ok {
			return c, fmt.Errorf("token: unsupported algorithm %q", alg)
		}
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTokenTTL
	}
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	return c, nil
}

// claims is the JWT payload. Role is deliberately absent: it is re-read from
// the credential store on every request.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints signed bearer tokens.
type TokenIssuer struct {
	cfg    TokenConfig
	method jwt.SigningMethod
	now    func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{
		cfg:    cfg,
		method: jwt.GetSigningMethod(cfg.Algorithms[0]),
		now:    time.Now,
	}, nil
}

func (i *TokenIssuer) Issue(user *domain.User) (ports.IssuedToken, error) {
	if user == nil || user.ID == "" {
		return ports.IssuedToken{}, errors.New("token: user without id")
	}

	now := i.now().UTC().Truncate(time.Second)
	exp := now.Add(i.cfg.TTL)
	t := jwt.NewWithClaims(i.method, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	})

	signed, err := t.SignedString(i.cfg.Secret)
	if err != nil {
		return ports.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return ports.IssuedToken{Token: signed, ExpiresAt: exp}, nil
}

// TokenVerifier validates signature, algorithm, issuer and expiry.
type TokenVerifier struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenVerifier(cfg TokenConfig) (*TokenVerifier, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &TokenVerifier{cfg: cfg, now: time.Now}, nil
}

func (v *TokenVerifier) Verify(token string) (*ports.TokenClaims, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(v.cfg.Algorithms),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)

	var c claims
	parsed, err := parser.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return v.cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || c.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	out := &ports.TokenClaims{
		Subject:   c.Subject,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, nil
}
