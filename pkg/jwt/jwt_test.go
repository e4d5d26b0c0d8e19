package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "test")
	owner := uuid.New()

	token, err := m.GenerateToken(owner, "maker@example.com", "Maker", "v1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.OwnerID != owner || claims.TokenVersion != "v1" || claims.Email != "maker@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRejectsForeignSecret(t *testing.T) {
	token, _ := NewManager("one", time.Hour, "test").GenerateToken(uuid.New(), "a@b.c", "A", "v1")
	if _, err := NewManager("two", time.Hour, "test").ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRejectsExpired(t *testing.T) {
	m := NewManager("s", time.Hour, "test")
	m.ttl = -time.Minute
	token, _ := m.GenerateToken(uuid.New(), "a@b.c", "A", "v1")
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestMissingToken(t *testing.T) {
	if _, err := NewManager("", 0, "").ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
