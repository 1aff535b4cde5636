package config

import (
	"errors"
	"strings"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrBootstrapNotConfigured is returned when ADMIN_EMAIL or ADMIN_PASSWORD is empty
var ErrBootstrapNotConfigured = errors.New("bootstrap super admin is not configured")

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg BootstrapConfig
	log *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg BootstrapConfig, log *zap.Logger) *Seeder {
	return &Seeder{db: db, cfg: cfg, log: log}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	created, err := s.SeedSuperAdmin()
	if errors.Is(err, ErrBootstrapNotConfigured) {
		s.log.Warn("super admin seed skipped: ADMIN_EMAIL / ADMIN_PASSWORD not set")
		return nil
	}
	if err != nil {
		return err
	}
	if created {
		s.log.Info("super admin created", zap.String("email", strings.ToLower(s.cfg.Email)))
	}
	return nil
}

// SeedSuperAdmin creates the bootstrap super admin unless one already exists.
// It reports whether an account was created.
func (s *Seeder) SeedSuperAdmin() (bool, error) {
	email := strings.ToLower(strings.TrimSpace(s.cfg.Email))
	if email == "" || s.cfg.Password == "" {
		return false, ErrBootstrapNotConfigured
	}

	var count int64
	err := s.db.Model(&models.StaffAccount{}).
		Where("role = ? OR email = ?", "superAdmin", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if !password.ValidatePassword(s.cfg.Password) {
		return false, errors.New("ADMIN_PASSWORD is shorter than the minimum password length")
	}
	hashed, err := password.Hash(s.cfg.Password)
	if err != nil {
		return false, err
	}

	admin := &models.StaffAccount{
		FirstName:  s.cfg.FirstName,
		MiddleName: s.cfg.MiddleName,
		Email:      email,
		Password:   hashed,
		Role:       "superAdmin",
		Status:     "active",
	}
	if err := s.db.Create(admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
