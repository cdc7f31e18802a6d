package services

import (
	"context"
	"errors"
	"time"

	"allvoter/internal/models"
	"allvoter/internal/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService owns signup, login, and bearer token issuance. Tokens embed
// the voter's identity and role so downstream operations never re-derive
// identity from request payloads.
type AuthService struct {
	db      *gorm.DB
	timeout time.Duration
	secret  []byte
	ttl     time.Duration
}

func NewAuthService(gdb *gorm.DB, timeout time.Duration, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{db: gdb, timeout: timeout, secret: secret, ttl: ttl}
}

// RegisterInput carries a validated signup payload. Field-shape validation
// (age >= 18, 12-digit aadhaar) happens at the binding layer; this service
// enforces the storage-level rules.
type RegisterInput struct {
	Name          string
	Age           int
	Email         string
	Mobile        string
	Address       string
	AadhaarNumber string
	Password      string
	Role          models.Role
}

// Register creates a user and returns it with a fresh token. At most one
// admin account may exist.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	role := in.Role
	if role == "" {
		role = models.RoleVoter
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Name:          in.Name,
		Age:           in.Age,
		Email:         in.Email,
		Mobile:        in.Mobile,
		Address:       in.Address,
		AadhaarNumber: in.AadhaarNumber,
		Password:      hash,
		Role:          role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if role == models.RoleAdmin {
			var admins int64
			if err := tx.Model(&models.User{}).
				Where("role = ?", models.RoleAdmin).
				Count(&admins).Error; err != nil {
				return storageErr(err)
			}
			if admins > 0 {
				return ErrAdminExists
			}
		}

		var existing int64
		if err := tx.Model(&models.User{}).
			Where("aadhaar_number = ?", in.AadhaarNumber).
			Count(&existing).Error; err != nil {
			return storageErr(err)
		}
		if existing > 0 {
			return ErrAadhaarTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies the aadhaar/password pair. Unknown identity and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, aadhaarNumber, password string) (*models.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).
		Where("aadhaar_number = ?", aadhaarNumber).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", storageErr(err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// ChangePassword swaps the credential hash after re-proving the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoterNotFound
		}
		return storageErr(err)
	}
	if !utils.CheckPassword(user.Password, current) {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&user).
		UpdateColumn("password", hash).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// IssueToken signs an HS256 bearer token carrying the user's ID and role
// with a fixed expiry.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}
