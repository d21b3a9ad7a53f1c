package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mmynk/groupswipe/internal/models"
)

func signed(t *testing.T, method jwt.SigningMethod, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return token
}

func TestJWTManager(t *testing.T) {
	user := models.NewUser("alice@example.com", "alice", "hash")

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("secret", time.Hour)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID() != user.ID {
			t.Errorf("user id: expected %s, got %s", user.ID, claims.UserID())
		}
		if claims.Username != "alice" {
			t.Errorf("username: expected alice, got %s", claims.Username)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("secret", time.Hour).Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := NewJWTManager("other", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("secret", -time.Hour)
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejected claims", func(t *testing.T) {
		valid := func() *Claims {
			return &Claims{
				Email: user.Email,
				RegisteredClaims: jwt.RegisteredClaims{
					Issuer:    Issuer,
					Subject:   user.ID,
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}
		}
		foreign := valid()
		foreign.Issuer = "someone-else"
		anonymous := valid()
		anonymous.Subject = ""
		unbounded := valid()
		unbounded.ExpiresAt = nil

		tests := []struct {
			name  string
			token string
		}{
			{"foreign issuer", signed(t, jwt.SigningMethodHS256, foreign)},
			{"missing subject", signed(t, jwt.SigningMethodHS256, anonymous)},
			{"missing expiry", signed(t, jwt.SigningMethodHS256, unbounded)},
			{"other algorithm", signed(t, jwt.SigningMethodHS384, valid())},
		}
		m := NewJWTManager("secret", time.Hour)
		if _, err := m.Validate(signed(t, jwt.SigningMethodHS256, valid())); err != nil {
			t.Fatalf("expected hand-built token to validate, got %v", err)
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
					t.Errorf("expected ErrInvalidToken, got %v", err)
				}
			})
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := NewJWTManager("secret", time.Hour).Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
