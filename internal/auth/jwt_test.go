package auth

import (
	"testing"
	"time"

	"github.com/MahdiMurshed/bookshare/internal/models"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleAdmin}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID: expected u1, got %s", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email: expected alice@example.com, got %s", claims.Email)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role: expected admin, got %s", claims.Role)
	}
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	user := &models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleMember}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Validate(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-a", time.Hour)
	user := &models.User{ID: "u1", Email: "alice@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	other := NewJWTManager("secret-b", time.Hour)
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected token signed with different secret to be rejected")
	}
}
