package jwt

import (
	"errors"
	"testing"
)

const (
	testSecret        = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "ravi", "FARMER", testSecret, 15)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "ravi" || claims.Role != "FARMER" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "ravi", "FARMER", testSecret, 15)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateAccessToken(token, "some-other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(42, "ravi", "FARMER", testSecret, -1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateRefreshToken(token, testRefreshSecret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.TokenID != "token-id-1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	access, err := GenerateAccessToken(42, "ravi", "FARMER", testSecret, 15)
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}

	// An access token signed with the access secret must not pass refresh
	// validation, which uses a different secret.
	if _, err := ValidateRefreshToken(access, testRefreshSecret); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestValidateGarbage(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}
