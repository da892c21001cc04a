package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.GenerateJWT("ann@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := issuer.ValidateJWT(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "ann@example.com" || claims.Subject != "ann@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected 1h lifetime, got %s", got)
	}
}

func TestValidateJWT_Expired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-61 * time.Minute) }
	token, err := issuer.GenerateJWT("ann@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.ValidateJWT(token); err == nil {
		t.Fatal("expected an expired token to be rejected")
	}
}

func TestValidateJWT_StillValidJustBeforeExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-59 * time.Minute) }
	token, _ := issuer.GenerateJWT("ann@example.com")

	issuer.now = time.Now
	if _, err := issuer.ValidateJWT(token); err != nil {
		t.Fatalf("expected token to be valid, got %v", err)
	}
}

func TestValidateJWT_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	other := NewTokenIssuer("another-secret", time.Hour)
	foreign, _ := other.GenerateJWT("ann@example.com")

	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "ann@example.com"}).SignedString([]byte("secret"))

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		Email:            "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))

	tests := map[string]string{
		"wrong secret":    foreign,
		"missing email":   noEmail,
		"missing expiry":  noExpiry,
		"other algorithm": hs512,
		"garbage":         "not-a-token",
		"empty":           "",
	}
	for name, token := range tests {
		if _, err := issuer.ValidateJWT(token); err == nil {
			t.Errorf("%s: expected validation to fail", name)
		}
	}
}

func TestTokenIssuer_NoSecret(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)
	if _, err := issuer.GenerateJWT("ann@example.com"); err != ErrSecretNotConfigured {
		t.Errorf("expected ErrSecretNotConfigured, got %v", err)
	}
}
