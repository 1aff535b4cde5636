package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/core/domain"
	"ncic-pledge/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Staff service errors
var (
	ErrStaffNotFound      = fmt.Errorf("%w: staff account not found", domain.ErrNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already exists", domain.ErrConflict)
	ErrNotFollowUp        = fmt.Errorf("%w: only follow-up accounts can be changed here", domain.ErrForbidden)
	ErrRoleNotAllowed     = fmt.Errorf("%w: your role cannot create this account type", domain.ErrForbidden)
)

// StaffService handles staff account management
type StaffService struct {
	staffRepo repositories.StaffRepository
	mailer    Mailer
	generate  func() (string, error)
	log       *zap.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo repositories.StaffRepository, mailer Mailer, log *zap.Logger) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		mailer:    mailer,
		generate:  password.Generate,
		log:       log,
	}
}

// CreateStaffInput represents create staff input
type CreateStaffInput struct {
	FirstName  string
	MiddleName string
	Email      string
}

// NormalizeEmail lower-cases and trims an email for lookup and storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// canCreate reports whether creator may create an account of role
func canCreate(creator, role domain.Role) bool {
	switch role {
	case domain.RoleAdmin:
		return creator == domain.RoleSuperAdmin
	case domain.RoleFollowUp:
		return creator.IsAdmin()
	}
	return false
}

// CreateStaff creates an admin or follow-up account with a generated
// password and emails the credentials. Mail failures are logged only.
func (s *StaffService) CreateStaff(ctx context.Context, in *CreateStaffInput, role domain.Role, creator Actor) (*models.StaffAccount, error) {
	if !canCreate(creator.Role, role) {
		return nil, ErrRoleNotAllowed
	}

	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(in.MiddleName) == "" {
		missing = append(missing, "middle_name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("missing required fields", missing...)
	}

	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("email is not a valid address", "email")
	}

	exists, err := s.staffRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	plain, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	staff := &models.StaffAccount{
		FirstName:  strings.TrimSpace(in.FirstName),
		MiddleName: strings.TrimSpace(in.MiddleName),
		Email:      email,
		Password:   hashed,
		Role:       string(role),
		Status:     string(domain.StaffActive),
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	s.log.Info("staff account created",
		zap.Uint("staff_id", staff.ID),
		zap.String("role", staff.Role),
		zap.Uint("created_by", creator.ID),
	)

	if s.mailer != nil {
		err := s.mailer.SendAccountCreated(ctx, AccountCreatedMail{
			To:         staff.Email,
			FirstName:  staff.FirstName,
			MiddleName: staff.MiddleName,
			Role:       role,
			Password:   plain,
		})
		if err != nil {
			s.log.Warn("account email not delivered", zap.Uint("staff_id", staff.ID), zap.Error(err))
		}
	}

	return staff, nil
}

// ListByRole lists staff accounts of one role
func (s *StaffService) ListByRole(ctx context.Context, role domain.Role, offset, limit int) ([]*models.StaffResponse, int64, error) {
	staff, total, err := s.staffRepo.ListByRole(ctx, string(role), offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.StaffResponse, len(staff))
	for i, st := range staff {
		out[i] = st.ToResponse()
	}
	return out, total, nil
}

// GetByID gets a staff account by ID
func (s *StaffService) GetByID(ctx context.Context, id uint) (*models.StaffAccount, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

// UpdateFollowUpStatus activates or deactivates a follow-up account
func (s *StaffService) UpdateFollowUpStatus(ctx context.Context, id uint, status string, actor Actor) (*models.StaffAccount, error) {
	if !domain.StaffStatus(status).IsValid() {
		return nil, domain.NewValidationError("status must be active or inactive", "status")
	}

	staff, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff.Role != string(domain.RoleFollowUp) {
		return nil, ErrNotFollowUp
	}

	if err := s.staffRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	staff.Status = status

	s.log.Info("follow-up status changed",
		zap.Uint("staff_id", id),
		zap.String("status", status),
		zap.Uint("changed_by", actor.ID),
	)
	return staff, nil
}
