package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"allvoter/internal/models"
	"allvoter/internal/testutil"

	"github.com/golang-jwt/jwt/v4"
)

func newAuthService(t *testing.T) (*AuthService, func() *models.User) {
	t.Helper()
	gdb := testutil.SetupTestDB(t)
	s := NewAuthService(gdb, 5*time.Second, []byte("test-secret"), time.Hour)
	return s, func() *models.User { return testutil.CreateAdmin(t, gdb) }
}

func registerInput(aadhaar string, role models.Role) RegisterInput {
	return RegisterInput{
		Name:          "Asha",
		Age:           30,
		Address:       "1 Test Street",
		AadhaarNumber: aadhaar,
		Password:      "secret123",
		Role:          role,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newAuthService(t)

	user, token, err := s.Register(context.Background(), registerInput("123412341234", ""))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != models.RoleVoter {
		t.Errorf("expected default role voter, got %s", user.Role)
	}
	if token == "" {
		t.Error("expected a token on signup")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if uint(claims["id"].(float64)) != user.ID {
		t.Errorf("token id claim mismatch")
	}
	if claims["role"].(string) != string(models.RoleVoter) {
		t.Errorf("token role claim mismatch")
	}
	if claims["jti"].(string) == "" {
		t.Errorf("expected a jti claim")
	}

	if _, _, err := s.Login(context.Background(), "123412341234", "secret123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, _, err := s.Login(context.Background(), "123412341234", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := s.Login(context.Background(), "000000000000", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown identity, got %v", err)
	}
}

func TestRegisterDuplicateAadhaar(t *testing.T) {
	s, _ := newAuthService(t)

	if _, _, err := s.Register(context.Background(), registerInput("123412341234", "")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, _, err := s.Register(context.Background(), registerInput("123412341234", "")); !errors.Is(err, ErrAadhaarTaken) {
		t.Fatalf("expected ErrAadhaarTaken, got %v", err)
	}
}

func TestRegisterSecondAdminRejected(t *testing.T) {
	s, seedAdmin := newAuthService(t)
	seedAdmin()

	if _, _, err := s.Register(context.Background(), registerInput("123412341234", models.RoleAdmin)); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	s, _ := newAuthService(t)

	user, _, err := s.Register(context.Background(), registerInput("123412341234", ""))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := s.ChangePassword(context.Background(), user.ID, "wrong", "newsecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials without re-proof, got %v", err)
	}
	if err := s.ChangePassword(context.Background(), user.ID, "secret123", "newsecret"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, _, err := s.Login(context.Background(), "123412341234", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password must stop working")
	}
	if _, _, err := s.Login(context.Background(), "123412341234", "newsecret"); err != nil {
		t.Errorf("new password must work: %v", err)
	}
}
