package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/dto"
	"github.com/spc-registrar/records-api/internal/models"
	"github.com/spc-registrar/records-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates an unknown username or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrPasswordMismatch indicates the current password check failed.
	ErrPasswordMismatch = errors.New("current password does not match")
)

// AuthService owns operator authentication and password changes.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	ChangePassword(ctx context.Context, operatorID uint, req dto.ChangePasswordRequest) error
}

type authService struct {
	operators repository.OperatorRepository
	hasher    PasswordHasher
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(operators repository.OperatorRepository, hasher PasswordHasher, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &authService{
		operators: operators,
		hasher:    hasher,
		validator: validate,
		secret:    secret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	operator, err := s.operators.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	ok, legacy := s.verify(operator.PasswordHash, req.Password)
	if !ok {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if legacy {
		// Stored value is an unsalted SHA-256 digest from an earlier
		// revision; rewrite it under the current scheme now that the
		// plaintext is known to match.
		if hash, hashErr := s.hasher.Hash(req.Password); hashErr == nil {
			if updateErr := s.operators.UpdatePasswordHash(ctx, operator.ID, hash); updateErr != nil {
				s.logger.Warn().Err(updateErr).Uint("operator_id", operator.ID).Msg("failed to upgrade legacy password hash")
			} else {
				s.logger.Info().Uint("operator_id", operator.ID).Msg("legacy password hash upgraded")
			}
		}
	}

	now := time.Now().UTC()
	if err := s.operators.TouchLastLogin(ctx, operator.ID, now); err != nil {
		return dto.LoginResponse{}, err
	}

	expiresAt := now.Add(s.tokenTTL)
	token, err := s.issueToken(operator, expiresAt)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("username", operator.Username).Msg("operator logged in")

	lastLogin := now
	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Operator: dto.OperatorInfo{
			ID:        operator.ID,
			Username:  operator.Username,
			Role:      operator.Role,
			Email:     operator.Email,
			FullName:  operator.FullName,
			LastLogin: &lastLogin,
		},
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, operatorID uint, req dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		return err
	}

	if ok, _ := s.verify(operator.PasswordHash, req.CurrentPassword); !ok {
		return ErrPasswordMismatch
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.operators.UpdatePasswordHash(ctx, operatorID, hash); err != nil {
		return err
	}

	s.logger.Info().Uint("operator_id", operatorID).Msg("password changed")

	return nil
}

// verify checks the password against the stored hash. A 64-hex-digit value
// is a legacy unsalted SHA-256 digest; anything else goes through the
// configured hasher.
func (s *authService) verify(stored, password string) (ok, legacy bool) {
	if isLegacyDigest(stored) {
		sum := sha256.Sum256([]byte(password))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1, true
	}

	return s.hasher.Compare(stored, password), false
}

func (s *authService) issueToken(operator models.Operator, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      operator.ID,
		"username": operator.Username,
		"role":     operator.Role,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", err
	}

	return signed, nil
}

func isLegacyDigest(stored string) bool {
	if len(stored) != 64 {
		return false
	}
	for _, r := range stored {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
