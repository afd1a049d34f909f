package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute)

	signed, expiresAt, err := manager.GenerateAccessToken(42, "sid-42", "SELLER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if signed == "" {
		t.Fatal("expected a signed token")
	}

	claims, err := manager.ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.SID != "sid-42" || claims.Role != "SELLER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.Unix() != expiresAt.Unix() {
		t.Fatalf("expiry mismatch: got %v want %v", claims.ExpiresAt, expiresAt)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute)
	other := NewJWTManager("other-secret", 15*time.Minute)

	signed, _, err := manager.GenerateAccessToken(42, "sid-42", "SELLER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.ParseAccessToken(signed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAccessTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)
	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }

	signed, _, err := manager.GenerateAccessToken(42, "sid-42", "SELLER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := manager.ParseAccessToken(signed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestAccessTokenRejectsForeignAudience(t *testing.T) {
	manager := NewJWTManager("test-secret", 15*time.Minute)

	now := time.Now().UTC()
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims{
		SID:  "sid-42",
		Role: "SELLER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{"some-other-deployment"},
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	})
	signed, err := foreign.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := manager.ParseAccessToken(signed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign audience, got %v", err)
	}
}
