package security_test

import (
	"testing"
	"time"

	"github.com/Rrens/medical-agent/internal/security"
)

const testSecret = "test-secret-key-with-32-chars!!"

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager(testSecret, "medical-agent", 15*time.Minute)

	token, err := manager.GenerateAccessToken("test@example.com", "Test Patient")
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if token == "" {
		t.Error("access token is empty")
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("failed to validate access token: %v", err)
	}

	if claims.Email != "test@example.com" {
		t.Errorf("email mismatch: got %v, want %v", claims.Email, "test@example.com")
	}

	if claims.Name != "Test Patient" {
		t.Errorf("name mismatch: got %v, want %v", claims.Name, "Test Patient")
	}

	if claims.Issuer != "medical-agent" {
		t.Errorf("issuer mismatch: got %v", claims.Issuer)
	}
}

func TestJWTManager_RequiresEmail(t *testing.T) {
	manager := security.NewJWTManager(testSecret, "medical-agent", 15*time.Minute)

	if _, err := manager.GenerateAccessToken("", "Nobody"); err == nil {
		t.Error("expected error for empty email, got nil")
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager(testSecret, "medical-agent", 15*time.Minute)

	// Invalid token format
	_, err := manager.ValidateAccessToken("invalid-token")
	if err == nil {
		t.Error("expected error for invalid token, got nil")
	}

	// Empty token
	_, err = manager.ValidateAccessToken("")
	if err == nil {
		t.Error("expected error for empty token, got nil")
	}

	// Token signed with different secret
	otherManager := security.NewJWTManager("different-secret-key-32-chars!!", "medical-agent", 15*time.Minute)
	token, _ := otherManager.GenerateAccessToken("test@example.com", "")

	_, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Error("expected error for token signed with different secret, got nil")
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := security.NewJWTManager(testSecret, "medical-agent", -time.Minute)

	token, err := manager.GenerateAccessToken("test@example.com", "")
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}
