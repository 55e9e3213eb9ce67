package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/catalog-api/internal/core/domain"
)

func testConfig(secret string) TokenConfig {
	return TokenConfig{Secret: []byte(secret), TTL: time.Hour}
}

func mustIssuer(t *testing.T, cfg TokenConfig) *TokenIssuer {
	t.Helper()
	i, err := NewTokenIssuer(cfg)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return i
}

func mustVerifier(t *testing.T, cfg TokenConfig) *TokenVerifier {
	t.Helper()
	v, err := NewTokenVerifier(cfg)
	if err != nil {
		t.Fatalf("NewTokenVerifier: %v", err)
	}
	return v
}

var alice = &domain.User{ID: "1", Email: "alice@example.com", Role: domain.RoleUser}

func TestToken_RoundTrip(t *testing.T) {
	cfg := testConfig("secret")
	issued, err := mustIssuer(t, cfg).Issue(alice)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := mustVerifier(t, cfg).Verify(issued.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != alice.ID || claims.Email != alice.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(issued.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v vs %v", claims.ExpiresAt, issued.ExpiresAt)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Fatalf("expected 1h window, got %v", got)
	}
}

func TestToken_DefaultWindowIsSixtyMinutes(t *testing.T) {
	issuer := mustIssuer(t, TokenConfig{Secret: []byte("secret")})
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	issued, err := issuer.Issue(alice)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := fixed.Add(60 * time.Minute); !issued.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, issued.ExpiresAt)
	}
}

func TestToken_Expired(t *testing.T) {
	cfg := testConfig("secret")
	issuer := mustIssuer(t, cfg)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	issued, err := issuer.Issue(alice)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := mustVerifier(t, cfg).Verify(issued.Token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestToken_VerifierClockPastExpiry(t *testing.T) {
	cfg := testConfig("secret")
	issued, _ := mustIssuer(t, cfg).Issue(alice)

	v := mustVerifier(t, cfg)
	v.now = func() time.Time { return issued.ExpiresAt.Add(time.Second) }
	if _, err := v.Verify(issued.Token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestToken_WrongSecret(t *testing.T) {
	issued, _ := mustIssuer(t, testConfig("secret-a")).Issue(alice)

	_, err := mustVerifier(t, testConfig("secret-b")).Verify(issued.Token)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestToken_DisallowedAlgorithm(t *testing.T) {
	signer := mustIssuer(t, TokenConfig{Secret: []byte("secret"), Algorithms: []string{"HS512"}})
	issued, _ := signer.Issue(alice)

	v := mustVerifier(t, TokenConfig{Secret: []byte("secret"), Algorithms: []string{"HS256"}})
	if _, err := v.Verify(issued.Token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestToken_NoneAlgorithm(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "email": "alice@example.com", "iss": DefaultIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := mustVerifier(t, testConfig("secret")).Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestToken_MissingExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "email": "alice@example.com", "iss": DefaultIssuer,
	})
	signed, _ := tok.SignedString([]byte("secret"))

	if _, err := mustVerifier(t, testConfig("secret")).Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestToken_IssuerMismatch(t *testing.T) {
	issued, _ := mustIssuer(t, TokenConfig{Secret: []byte("secret"), Issuer: "someone-else"}).Issue(alice)

	if _, err := mustVerifier(t, testConfig("secret")).Verify(issued.Token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestToken_Garbage(t *testing.T) {
	v := mustVerifier(t, testConfig("secret"))
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := v.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("%q: expected ErrTokenInvalid, got %v", raw, err)
		}
	}
}

func TestTokenConfig_Validation(t *testing.T) {
	if _, err := NewTokenIssuer(TokenConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenVerifier(TokenConfig{Secret: []byte("s"), Algorithms: []string{"RS256"}}); err == nil {
		t.Fatalf("expected error for non-HMAC algorithm")
	}
	if _, err := mustIssuer(t, testConfig("s")).Issue(&domain.User{Email: "x@example.com"}); err == nil {
		t.Fatalf("expected error for user without id")
	}
}
