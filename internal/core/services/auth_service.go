package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/config"
	"ncic-pledge/internal/core/domain"
	"ncic-pledge/internal/pkg/jwt"
	"ncic-pledge/internal/pkg/password"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	ErrAccountInactive    = fmt.Errorf("%w: account is inactive", domain.ErrForbidden)
	ErrNotSelf            = fmt.Errorf("%w: you can only change your own password", domain.ErrForbidden)
	ErrOldPasswordWrong   = fmt.Errorf("%w: old password is incorrect", domain.ErrForbidden)
)

// AuthService handles authentication business logic
type AuthService struct {
	staffRepo        repositories.StaffRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
	log              *zap.Logger
	now              Clock
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo repositories.StaffRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		staffRepo:        staffRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
		log:              log,
		now:              time.Now,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Staff        *models.StaffResponse `json:"profile"`
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// Login authenticates a staff account by email and password
func (s *AuthService) Login(ctx context.Context, in *LoginInput) (*AuthResponse, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(in.Password, staff.Password) {
		return nil, ErrInvalidCredentials
	}
	if !staff.IsActive() {
		return nil, ErrAccountInactive
	}

	now := s.now()
	if err := s.staffRepo.UpdateLastLogin(ctx, staff.ID, now); err != nil {
		return nil, err
	}
	staff.LastLogin = &now

	resp, err := s.issue(ctx, staff)
	if err != nil {
		return nil, err
	}

	s.log.Info("staff logged in", zap.Uint("staff_id", staff.ID), zap.String("role", staff.Role))
	return resp, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if stored.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, ErrTokenExpired
	}

	staff, err := s.staffRepo.GetByID(ctx, claims.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !staff.IsActive() {
		return nil, ErrAccountInactive
	}

	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issue(ctx, staff)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes all refresh tokens of a staff account
func (s *AuthService) LogoutAll(ctx context.Context, staffID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByStaffID(ctx, staffID); err != nil {
		return err
	}
	s.log.Info("all sessions revoked", zap.Uint("staff_id", staffID))
	return nil
}

// ChangePassword replaces the caller's own password
func (s *AuthService) ChangePassword(ctx context.Context, targetID uint, in *ChangePasswordInput, actor Actor) error {
	if targetID != actor.ID {
		return ErrNotSelf
	}
	if in.OldPassword == "" || in.NewPassword == "" {
		return domain.NewValidationError("old and new password are required", "old_password", "new_password")
	}

	staff, err := s.staffRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}
	// the old password is checked before any rule on the new one
	if !password.Verify(in.OldPassword, staff.Password) {
		return ErrOldPasswordWrong
	}
	if !password.ValidatePassword(in.NewPassword) {
		return domain.NewValidationError(fmt.Sprintf("new password must be at least %d characters", password.MinLength), "new_password")
	}
	if in.NewPassword == in.OldPassword {
		return domain.NewValidationError("new password must differ from the old one", "new_password")
	}

	hashed, err := password.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.staffRepo.UpdatePassword(ctx, staff.ID, hashed); err != nil {
		return err
	}

	// force re-login on other devices
	if err := s.refreshTokenRepo.RevokeAllByStaffID(ctx, staff.ID); err != nil {
		s.log.Warn("revoke sessions after password change failed", zap.Uint("staff_id", staff.ID), zap.Error(err))
	}

	s.log.Info("password changed", zap.Uint("staff_id", staff.ID))
	return nil
}

// GetStaffByID gets a staff account by ID
func (s *AuthService) GetStaffByID(ctx context.Context, staffID uint) (*models.StaffAccount, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

// issue generates a token pair and stores the refresh token hash
func (s *AuthService) issue(ctx context.Context, staff *models.StaffAccount) (*AuthResponse, error) {
	tokens, err := s.generateTokens(staff)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, staff.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Staff:        staff.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(staff *models.StaffAccount) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		staff.ID,
		staff.Email,
		staff.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		staff.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token hash in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, staffID uint, refreshToken string) error {
	token := &models.RefreshToken{
		StaffID:   staffID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
