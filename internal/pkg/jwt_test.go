package pkg

import (
	"errors"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-access", "test-refresh")

	pair, err := GeneratePair(42)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	claims, err := ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id = %d, want 42", claims.UserID)
	}

	// refresh token 不能当 access 用（密钥不同）
	if _, err := ParseAccess(pair.RefreshToken); err == nil {
		t.Fatal("refresh token must not parse as access token")
	}
}

func TestJWTRefresh(t *testing.T) {
	InitJWT("test-access", "test-refresh")

	pair, err := GeneratePair(7)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	renewed, err := Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := ParseAccess(renewed.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess(renewed): %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("user id = %d, want 7", claims.UserID)
	}

	if _, err := Refresh("garbage"); err == nil || errors.Is(err, ErrRefreshExpired) {
		t.Fatalf("garbage refresh must fail with a parse error, got %v", err)
	}
}
