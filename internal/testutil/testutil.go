package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"allvoter/internal/config"
	"allvoter/internal/db"
	"allvoter/internal/models"
	"allvoter/internal/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestPassword is the plaintext credential every seeded account uses.
const TestPassword = "secret123"

// SetupTestDB opens a file-backed sqlite database in a per-test temp dir and
// migrates the schema. A single pooled connection plus busy_timeout keeps
// concurrent test transactions serialized instead of failing with
// SQLITE_BUSY.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

// Config returns a server config suitable for tests. Callers mutate fields
// (e.g. the Gemini base URL) before wiring routes.
func Config() *config.Config {
	return &config.Config{
		Port:          "0",
		JWTSecret:     []byte("test-secret"),
		TokenTTL:      time.Hour,
		DBTimeout:     5 * time.Second,
		GeminiAPIKey:  "",
		GeminiBaseURL: "http://127.0.0.1:0",
		GeminiModel:   "test-model",
		GeminiTimeout: 5 * time.Second,
	}
}

// CreateVoter seeds a voter with the given aadhaar number.
func CreateVoter(t *testing.T, gdb *gorm.DB, name, aadhaar string) *models.User {
	t.Helper()
	return createUser(t, gdb, name, aadhaar, models.RoleVoter)
}

// CreateAdmin seeds the admin account.
func CreateAdmin(t *testing.T, gdb *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, gdb, "Admin", "999999999999", models.RoleAdmin)
}

func createUser(t *testing.T, gdb *gorm.DB, name, aadhaar string, role models.Role) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Name:          name,
		Age:           30,
		Address:       "1 Test Street",
		AadhaarNumber: aadhaar,
		Password:      hash,
		Role:          role,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// CreateCandidate seeds a candidate.
func CreateCandidate(t *testing.T, gdb *gorm.DB, name, party string) *models.Candidate {
	t.Helper()

	candidate := &models.Candidate{Name: name, Party: party, Age: 45}
	if err := gdb.Create(candidate).Error; err != nil {
		t.Fatalf("failed to create candidate %s: %v", name, err)
	}
	return candidate
}

// TokenFor signs a bearer token for the user with the test secret.
func TokenFor(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	return signToken(t, cfg, user, time.Now().Add(cfg.TokenTTL))
}

// ExpiredTokenFor signs a token whose expiry is already in the past.
func ExpiredTokenFor(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	return signToken(t, cfg, user, time.Now().Add(-time.Hour))
}

func signToken(t *testing.T, cfg *config.Config, user *models.User, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(cfg.JWTSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}
