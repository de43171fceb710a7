package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/daansetu/daansetu-backend/config"
	models "github.com/daansetu/daansetu-backend/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  24 * time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		ID:          primitive.NewObjectID(),
		DisplayName: "Helping Hands",
		Email:       "ngo@example.com",
		Role:        models.RoleNgo,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := testUser()

	token, err := GenerateAccessToken(cfg, user)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	claims, err := ValidateAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}

	if claims.UserID != user.ID.Hex() {
		t.Errorf("user id = %s, want %s", claims.UserID, user.ID.Hex())
	}
	if claims.Role != string(models.RoleNgo) {
		t.Errorf("role = %s, want ngo", claims.Role)
	}
	if claims.DisplayName != user.DisplayName {
		t.Errorf("display name = %s, want %s", claims.DisplayName, user.DisplayName)
	}
}

func TestAccessTokenRejectedWithWrongSecret(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateAccessToken(cfg, testUser())
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	other := testConfig()
	other.JWTSecret = "a-different-secret"
	if _, err := ValidateAccessToken(other, token); err == nil {
		t.Error("token signed with another secret should not validate")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := testUser()

	token, err := GenerateRefreshToken(cfg, user)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	claims, err := ValidateRefreshToken(cfg, token)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("user id = %s, want %s", claims.UserID, user.ID.Hex())
	}

	// A refresh token is not a valid access token.
	if _, err := ValidateAccessToken(cfg, token); err == nil {
		t.Error("refresh token should not validate as access token")
	}
}
