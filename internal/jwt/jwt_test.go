package jwt

import (
	"testing"
	"time"
)

func TestNewService(t *testing.T) {
	service := NewService("test-secret-key", time.Hour, 24*time.Hour)
	if service == nil {
		t.Fatal("Expected service to be created")
	}
}

func TestGenerateTokenPair(t *testing.T) {
	service := NewService("test-secret-key", time.Hour, 24*time.Hour)

	tokenPair, err := service.GenerateTokenPair(12345)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	if tokenPair.AccessToken == "" {
		t.Error("Access token should not be empty")
	}
	if tokenPair.RefreshToken == "" {
		t.Error("Refresh token should not be empty")
	}
	if tokenPair.ExpiresAt <= time.Now().Unix() {
		t.Error("ExpiresAt should be in the future")
	}
}

func TestValidateAccessToken_Valid(t *testing.T) {
	service := NewService("test-secret-key", time.Hour, 24*time.Hour)

	tokenPair, err := service.GenerateTokenPair(12345)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	claims, err := service.ValidateAccessToken(tokenPair.AccessToken)
	if err != nil {
		t.Fatalf("Failed to validate access token: %v", err)
	}

	if claims.UserID != 12345 {
		t.Errorf("Expected UserID 12345, got %d", claims.UserID)
	}
	if claims.TokenType != AccessToken {
		t.Errorf("Expected TokenType access, got %s", claims.TokenType)
	}
}

func TestValidateRefreshToken_Valid(t *testing.T) {
	service := NewService("test-secret-key", time.Hour, 24*time.Hour)

	tokenPair, err := service.GenerateTokenPair(12345)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	claims, err := service.ValidateRefreshToken(tokenPair.RefreshToken)
	if err != nil {
		t.Fatalf("Failed to validate refresh token: %v", err)
	}

	if claims.UserID != 12345 {
		t.Errorf("Expected UserID 12345, got %d", claims.UserID)
	}
	if claims.TokenType != RefreshToken {
		t.Errorf("Expected TokenType refresh, got %s", claims.TokenType)
	}
}

func TestValidateAccessToken_WrongType(t *testing.T) {
	service := NewService("test-secret-key", time.Hour, 24*time.Hour)

	tokenPair, err := service.GenerateTokenPair(12345)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	// Refresh Token 不能当作 Access Token 使用
	if _, err := service.ValidateAccessToken(tokenPair.RefreshToken); err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	service := NewService("test-secret-key", time.Hour, 24*time.Hour)
	other := NewService("other-secret-key", time.Hour, 24*time.Hour)

	tokenPair, err := service.GenerateTokenPair(12345)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	if _, err := other.ValidateAccessToken(tokenPair.AccessToken); err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	service := NewService("test-secret-key", -time.Hour, 24*time.Hour)

	tokenPair, err := service.GenerateTokenPair(12345)
	if err != nil {
		t.Fatalf("Failed to generate token pair: %v", err)
	}

	if _, err := service.ValidateAccessToken(tokenPair.AccessToken); err != ErrTokenExpired {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}
