package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage/memory"
)

func newTestAuthenticator() *PasswordAuthenticator {
	a := NewPasswordAuthenticator(memory.New())
	a.cost = bcrypt.MinCost
	return a
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	user, err := a.Register(ctx, "  Coach@Example.com ", "Coach", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "coach@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.TenantID == "" || user.TenantID != user.ID {
		t.Errorf("tenant id = %q, want the user's own id %q", user.TenantID, user.ID)
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}

	got, err := a.Authenticate(ctx, "COACH@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated user %q, want %q", got.ID, user.ID)
	}
}

func TestRegisterErrors(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	if _, err := a.Register(ctx, "a@example.com", "A", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"weak password", "b@example.com", "short", ErrWeakPassword},
		{"duplicate email", "a@example.com", "password123", ErrEmailExists},
		{"duplicate email different case", "A@Example.com", "password123", ErrEmailExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, "X", tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	if _, err := a.Register(ctx, "a@example.com", "A", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"a@example.com", "wrong-password"},
		{"nobody@example.com", "password123"},
	} {
		if _, err := a.Authenticate(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate(%q) = %v, want ErrInvalidCredentials", tc.email, err)
		}
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-0123456789", time.Hour)
	user := &models.User{ID: "u1", TenantID: "t1", Email: "a@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.TenantID != "t1" || claims.Email != "a@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("test-secret-0123456789", time.Hour)
	user := &models.User{ID: "u1", TenantID: "t1"}

	t.Run("expired", func(t *testing.T) {
		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		later := &JWTManager{secretKey: m.secretKey, tokenDuration: time.Hour, now: func() time.Time {
			return time.Now().Add(2 * time.Hour)
		}}
		if _, err := later.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-0123456", time.Hour)
		token, _ := other.Generate(user)
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: "u1", TenantID: "t1", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("failed to sign: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("missing tenant", func(t *testing.T) {
		token, _ := m.Generate(&models.User{ID: "u1"})
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
