package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shangou-next/internal/config"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "unit-test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireHours = 24
	return NewAuthService(cfg, repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)

	user, token, _, err := svc.Register(RegisterInput{
		Email:    "Alice@Example.com",
		Password: "password123",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if token == "" {
		t.Fatalf("expected token on register")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	loggedIn, token, _, err := svc.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Fatalf("unexpected login result: %+v", loggedIn)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := setupAuthService(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "password123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid email error, got: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "short"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected short password error, got: %v", err)
	}

	if _, _, _, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "BOB@example.com", Password: "password456"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken error, got: %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := setupAuthService(t)
	if _, _, _, err := svc.Register(RegisterInput{Email: "carol@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("carol@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got: %v", err)
	}
}

func TestParseJWTRejectsTampered(t *testing.T) {
	svc := setupAuthService(t)
	user := &models.User{ID: 1, Email: "dave@example.com"}
	token, _, err := svc.GenerateJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("expected error for tampered token")
	}
}
