package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/core/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pledge service errors
var (
	ErrPledgeNotFound    = fmt.Errorf("%w: pledge not found", domain.ErrNotFound)
	ErrPledgeNotAssigned = fmt.Errorf("%w: pledge is not assigned to you", domain.ErrForbidden)
	ErrFieldsNotEditable = fmt.Errorf("%w: fields not editable by your role", domain.ErrForbidden)
)

// PledgeService handles pledge business logic
type PledgeService struct {
	pledgeRepo  repositories.PledgeRepository
	assignments *AssignmentService
	txm         repositories.TxManager
	cache       ReportCache
	log         *zap.Logger
	now         Clock
}

// NewPledgeService creates a new pledge service
func NewPledgeService(
	pledgeRepo repositories.PledgeRepository,
	assignments *AssignmentService,
	txm repositories.TxManager,
	cache ReportCache,
	log *zap.Logger,
) *PledgeService {
	if cache == nil {
		cache = noopCache{}
	}
	return &PledgeService{
		pledgeRepo:  pledgeRepo,
		assignments: assignments,
		txm:         txm,
		cache:       cache,
		log:         log,
		now:         time.Now,
	}
}

// WithClock replaces the time source
func (s *PledgeService) WithClock(now Clock) *PledgeService {
	s.now = now
	return s
}

// PaymentInput is a payment attached to an update
type PaymentInput struct {
	Amount decimal.Decimal
	Method string
	Date   *time.Time
}

// RemarkInput is a remark attached to an update
type RemarkInput struct {
	Comment string
}

// CreatePledgeInput represents create pledge input
type CreatePledgeInput struct {
	FullName          string
	PhoneNumber       string
	AltPhoneNumber    string
	Email             string
	PromisedAmount    *decimal.Decimal
	ContributionType  string
	MaterialType      string
	MaterialQuantity  *float64
	OtherDescription  string
	PromisedStartDate *time.Time
	PromisedEndDate   *time.Time
	PaperFormImage    string
	AssignedFollowUp  *uint
}

func (in *CreatePledgeInput) missingFields() []string {
	var missing []string
	if strings.TrimSpace(in.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		missing = append(missing, "phone_number")
	}
	if in.PromisedAmount == nil {
		missing = append(missing, "promised_amount")
	}
	if in.ContributionType == "" {
		missing = append(missing, "contribution_type")
	}
	if in.PromisedStartDate == nil {
		missing = append(missing, "promised_start_date")
	}
	if in.PromisedEndDate == nil {
		missing = append(missing, "promised_end_date")
	}
	if strings.TrimSpace(in.PaperFormImage) == "" {
		missing = append(missing, "paper_form_image")
	}
	return missing
}

// UpdatePledgeInput is a typed partial update. Nil fields are left unchanged.
// AssignedFollowUp set to 0 clears the assignment.
type UpdatePledgeInput struct {
	FullName          *string
	PhoneNumber       *string
	AltPhoneNumber    *string
	Email             *string
	PromisedAmount    *decimal.Decimal
	ContributionType  *string
	MaterialType      *string
	MaterialQuantity  *float64
	OtherDescription  *string
	PromisedStartDate *time.Time
	PromisedEndDate   *time.Time
	PaperFormImage    *string
	AssignedFollowUp  *uint

	Payment *PaymentInput
	Remark  *RemarkInput
}

// adminOnlyFields lists the set fields a follow-up may not edit
func (in *UpdatePledgeInput) adminOnlyFields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(in.FullName != nil, "full_name")
	add(in.PromisedAmount != nil, "promised_amount")
	add(in.ContributionType != nil, "contribution_type")
	add(in.MaterialType != nil, "material_type")
	add(in.MaterialQuantity != nil, "material_quantity")
	add(in.OtherDescription != nil, "other_description")
	add(in.PromisedStartDate != nil, "promised_start_date")
	add(in.PromisedEndDate != nil, "promised_end_date")
	add(in.PaperFormImage != nil, "paper_form_image")
	add(in.AssignedFollowUp != nil, "assigned_followup")
	return fields
}

func (in *UpdatePledgeInput) validate() error {
	var invalid []string
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		invalid = append(invalid, "full_name")
	}
	if in.PhoneNumber != nil && strings.TrimSpace(*in.PhoneNumber) == "" {
		invalid = append(invalid, "phone_number")
	}
	if in.PromisedAmount != nil && !in.PromisedAmount.IsPositive() {
		invalid = append(invalid, "promised_amount")
	}
	if in.ContributionType != nil && !domain.ContributionType(*in.ContributionType).IsValid() {
		invalid = append(invalid, "contribution_type")
	}
	if in.PaperFormImage != nil && strings.TrimSpace(*in.PaperFormImage) == "" {
		invalid = append(invalid, "paper_form_image")
	}
	if in.Payment != nil && !in.Payment.Amount.IsPositive() {
		invalid = append(invalid, "payment.amount")
	}
	if in.Remark != nil && strings.TrimSpace(in.Remark.Comment) == "" {
		invalid = append(invalid, "remark.comment")
	}
	if len(invalid) > 0 {
		return domain.NewValidationError("invalid field values", invalid...)
	}
	return nil
}

// apply copies set fields onto p and reports whether the monthly schedule inputs changed
func (in *UpdatePledgeInput) apply(p *models.Pledge) bool {
	scheduleDirty := false

	if in.FullName != nil {
		p.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.PhoneNumber != nil {
		p.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.AltPhoneNumber != nil {
		p.AltPhoneNumber = strings.TrimSpace(*in.AltPhoneNumber)
	}
	if in.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.PromisedAmount != nil {
		p.PromisedAmount = *in.PromisedAmount
		scheduleDirty = true
	}
	if in.ContributionType != nil {
		p.ContributionType = *in.ContributionType
		scheduleDirty = true
	}
	if in.MaterialType != nil {
		p.MaterialType = *in.MaterialType
	}
	if in.MaterialQuantity != nil {
		q := *in.MaterialQuantity
		p.MaterialQuantity = &q
	}
	if in.OtherDescription != nil {
		p.OtherDescription = *in.OtherDescription
	}
	if in.PromisedStartDate != nil {
		p.PromisedStartDate = *in.PromisedStartDate
		scheduleDirty = true
	}
	if in.PromisedEndDate != nil {
		p.PromisedEndDate = *in.PromisedEndDate
		scheduleDirty = true
	}
	if in.PaperFormImage != nil {
		p.PaperFormImage = strings.TrimSpace(*in.PaperFormImage)
	}

	return scheduleDirty
}

// Create registers a new pledge
func (s *PledgeService) Create(ctx context.Context, in *CreatePledgeInput, actor Actor) (*models.Pledge, error) {
	if missing := in.missingFields(); len(missing) > 0 {
		return nil, domain.NewValidationError("missing required fields", missing...)
	}
	if !in.PromisedAmount.IsPositive() {
		return nil, domain.NewValidationError("promised_amount must be greater than zero", "promised_amount")
	}
	if !domain.ContributionType(in.ContributionType).IsValid() {
		return nil, domain.NewValidationError("contribution_type must be one of oneTime, monthly, material, other", "contribution_type")
	}

	pledge := &models.Pledge{
		FullName:          strings.TrimSpace(in.FullName),
		PhoneNumber:       strings.TrimSpace(in.PhoneNumber),
		AltPhoneNumber:    strings.TrimSpace(in.AltPhoneNumber),
		Email:             strings.ToLower(strings.TrimSpace(in.Email)),
		PromisedAmount:    *in.PromisedAmount,
		ContributionType:  in.ContributionType,
		MaterialType:      in.MaterialType,
		MaterialQuantity:  in.MaterialQuantity,
		OtherDescription:  in.OtherDescription,
		PromisedStartDate: *in.PromisedStartDate,
		PromisedEndDate:   *in.PromisedEndDate,
		PaperFormImage:    strings.TrimSpace(in.PaperFormImage),
	}

	if err := applySchedule(pledge); err != nil {
		return nil, err
	}
	Reconcile(pledge, s.now())

	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.pledgeRepo.Create(ctx, pledge); err != nil {
			return err
		}
		if in.AssignedFollowUp != nil && *in.AssignedFollowUp != 0 {
			return s.assignments.reassign(ctx, pledge, in.AssignedFollowUp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info("pledge created",
		zap.Uint("pledge_id", pledge.ID),
		zap.Uint("created_by", actor.ID),
		zap.String("contribution_type", pledge.ContributionType),
	)
	return pledge, nil
}

// Update edits a pledge, appends an optional payment and remark, then reconciles.
// Follow-ups may only touch contact fields of pledges assigned to them.
func (s *PledgeService) Update(ctx context.Context, id uint, in *UpdatePledgeInput, actor Actor) (*models.Pledge, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() {
		if fields := in.adminOnlyFields(); len(fields) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrFieldsNotEditable, strings.Join(fields, ", "))
		}
	}

	var pledge *models.Pledge
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.lock(ctx, id)
		if err != nil {
			return err
		}
		if !canAccess(p, actor) {
			return ErrPledgeNotAssigned
		}

		if in.apply(p) {
			if err := applySchedule(p); err != nil {
				return err
			}
		}

		now := s.now()

		if in.Payment != nil {
			payment := models.PledgePayment{
				PledgeID: p.ID,
				Amount:   in.Payment.Amount,
				Method:   strings.TrimSpace(in.Payment.Method),
				Date:     now,
			}
			if payment.Method == "" {
				payment.Method = domain.DefaultPaymentMethod
			}
			if in.Payment.Date != nil {
				payment.Date = *in.Payment.Date
			}
			if err := s.pledgeRepo.AddPayment(ctx, &payment); err != nil {
				return err
			}
			p.Payments = append(p.Payments, payment)
		}

		if in.Remark != nil {
			remark := models.PledgeRemark{
				PledgeID: p.ID,
				AuthorID: actor.ID,
				Comment:  strings.TrimSpace(in.Remark.Comment),
				Date:     now,
			}
			if err := s.pledgeRepo.AddRemark(ctx, &remark); err != nil {
				return err
			}
			p.Remarks = append(p.Remarks, remark)
		}

		if in.AssignedFollowUp != nil {
			if err := s.assignments.reassign(ctx, p, in.AssignedFollowUp); err != nil {
				return err
			}
		}

		Reconcile(p, now)
		p.UpdatedAt = now
		if err := s.pledgeRepo.UpdateFields(ctx, p); err != nil {
			return err
		}

		pledge = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info("pledge updated",
		zap.Uint("pledge_id", pledge.ID),
		zap.Uint("updated_by", actor.ID),
		zap.String("status", pledge.Status),
	)
	return pledge, nil
}

// GetByID gets a pledge with its derived fields recomputed as of now
func (s *PledgeService) GetByID(ctx context.Context, id uint, actor Actor) (*models.Pledge, error) {
	pledge, err := s.pledgeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPledgeNotFound
		}
		return nil, err
	}
	if !canAccess(pledge, actor) {
		return nil, ErrPledgeNotAssigned
	}

	Reconcile(pledge, s.now())
	return pledge, nil
}

// List lists pledges matching filter
func (s *PledgeService) List(ctx context.Context, filter repositories.PledgeFilter, offset, limit int) ([]*models.Pledge, int64, error) {
	pledges, total, err := s.pledgeRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	for _, p := range pledges {
		Reconcile(p, now)
	}
	return pledges, total, nil
}

// ListMine lists the caller's non-archived assigned pledges
func (s *PledgeService) ListMine(ctx context.Context, actor Actor, offset, limit int) ([]*models.Pledge, int64, error) {
	archived := false
	filter := repositories.PledgeFilter{
		AssignedFollowUpID: &actor.ID,
		Archived:           &archived,
	}
	return s.List(ctx, filter, offset, limit)
}

// SetArchived archives or restores a pledge
func (s *PledgeService) SetArchived(ctx context.Context, id uint, archived bool, actor Actor) (*models.Pledge, error) {
	pledge, err := s.pledgeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPledgeNotFound
		}
		return nil, err
	}

	if pledge.Archived != archived {
		if err := s.pledgeRepo.SetArchived(ctx, id, archived); err != nil {
			return nil, err
		}
		pledge.Archived = archived
		s.invalidate(ctx)
		s.log.Info("pledge archive flag changed",
			zap.Uint("pledge_id", id),
			zap.Bool("archived", archived),
			zap.Uint("changed_by", actor.ID),
		)
	}

	Reconcile(pledge, s.now())
	return pledge, nil
}

func (s *PledgeService) lock(ctx context.Context, id uint) (*models.Pledge, error) {
	pledge, err := s.pledgeRepo.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPledgeNotFound
		}
		return nil, err
	}
	return pledge, nil
}

func (s *PledgeService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("report cache invalidation failed", zap.Error(err))
	}
}

// canAccess reports whether actor may read or edit p
func canAccess(p *models.Pledge, actor Actor) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	return p.AssignedFollowUpID != nil && *p.AssignedFollowUpID == actor.ID
}
