package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, 15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestNewJWTManagerShortSecret(t *testing.T) {
	if _, err := NewJWTManager("tooshort", time.Minute, time.Hour); !errors.Is(err, ErrShortSecret) {
		t.Fatalf("err = %v, want ErrShortSecret", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken("user-1", "alice", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not a JWT", token)
	}

	claims, err := m.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestGenerateTokenValidation(t *testing.T) {
	m := newTestManager(t)

	cases := []struct {
		name     string
		userID   string
		username string
		role     string
		want     error
	}{
		{"empty user id", "", "alice", RoleAdmin, ErrEmptyUserID},
		{"empty username", "user-1", "", RoleAdmin, ErrEmptyUsername},
		{"bad role", "user-1", "alice", "superuser", ErrInvalidRole},
		{"empty role", "user-1", "alice", "", ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := m.GenerateToken(tc.userID, tc.username, tc.role); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewJWTManager(strings.Repeat("x", 32), time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	token, err := m.GenerateToken("user-1", "alice", RoleViewer)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := other.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m, err := NewJWTManager(testSecret, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	token, err := m.GenerateToken("user-1", "alice", RoleViewer)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateToken(context.Background(), token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	m := newTestManager(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.ValidateToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ValidateToken(%q) err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	refresh, err := m.GenerateRefreshToken("user-7")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	userID, err := m.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if userID != "user-7" {
		t.Errorf("userID = %q, want user-7", userID)
	}
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken("user-1", "alice", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateRefreshToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenTTL(t *testing.T) {
	m := newTestManager(t)
	if m.TokenTTL() != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", m.TokenTTL())
	}
}
