package services

import (
	"context"
	"errors"
	"fmt"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Assignment errors
var (
	ErrInvalidRole     = fmt.Errorf("%w: account is not a follow-up", domain.ErrInvalidInput)
	ErrAlreadyAssigned = fmt.Errorf("%w: pledge is already assigned to this follow-up", domain.ErrInvalidInput)
	ErrStaffInactive   = fmt.Errorf("%w: follow-up account is inactive", domain.ErrInvalidInput)
)

// AssignmentService keeps pledge.assigned_followup and the staff account's
// assigned set in agreement. Every write runs in one transaction.
type AssignmentService struct {
	staffRepo  repositories.StaffRepository
	pledgeRepo repositories.PledgeRepository
	txm        repositories.TxManager
	log        *zap.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	staffRepo repositories.StaffRepository,
	pledgeRepo repositories.PledgeRepository,
	txm repositories.TxManager,
	log *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		staffRepo:  staffRepo,
		pledgeRepo: pledgeRepo,
		txm:        txm,
		log:        log,
	}
}

// SkippedPledge is one pledge left out of a bulk assignment
type SkippedPledge struct {
	PledgeID uint              `json:"pledge_id"`
	Reason   domain.SkipReason `json:"reason"`
}

// BulkAssignResult is the outcome of AssignMany
type BulkAssignResult struct {
	FollowUp        *models.StaffResponse `json:"followUp"`
	AssignedPledges []uint                `json:"assignedPledges"`
	SkippedPledges  []uint                `json:"skippedPledges"`
	Skipped         []SkippedPledge       `json:"skipped"`
}

// AssignOne assigns a single pledge to a follow-up account.
// A pledge held by another follow-up is moved.
func (s *AssignmentService) AssignOne(ctx context.Context, followUpID, pledgeID uint) (*models.Pledge, *models.StaffAccount, error) {
	var pledge *models.Pledge
	var staff *models.StaffAccount

	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		staff, err = s.loadFollowUp(ctx, followUpID)
		if err != nil {
			return err
		}

		pledge, err = s.lockPledge(ctx, pledgeID)
		if err != nil {
			return err
		}

		if staff.HasPledge(pledge.ID) {
			return ErrAlreadyAssigned
		}

		if err := s.link(ctx, pledge, staff.ID); err != nil {
			return err
		}
		staff.AssignedPledges = append(staff.AssignedPledges, models.StaffAssignedPledge{StaffID: staff.ID, PledgeID: pledge.ID})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("pledge assigned",
		zap.Uint("pledge_id", pledgeID),
		zap.Uint("followup_id", followUpID),
	)
	return pledge, staff, nil
}

// AssignMany assigns a batch of pledges to one follow-up account.
// Missing pledges, pledges already in the account's set and pledges held by
// another follow-up are skipped, never failed.
func (s *AssignmentService) AssignMany(ctx context.Context, followUpID uint, pledgeIDs []uint) (*BulkAssignResult, error) {
	if len(pledgeIDs) == 0 {
		return nil, domain.NewValidationError("pledgeIds must be a non-empty list", "pledgeIds")
	}

	result := &BulkAssignResult{
		AssignedPledges: []uint{},
		SkippedPledges:  []uint{},
		Skipped:         []SkippedPledge{},
	}

	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		staff, err := s.loadFollowUp(ctx, followUpID)
		if err != nil {
			return err
		}

		held := make(map[uint]bool, len(staff.AssignedPledges))
		for _, id := range staff.AssignedPledgeIDs() {
			held[id] = true
		}

		skip := func(id uint, reason domain.SkipReason) {
			result.SkippedPledges = append(result.SkippedPledges, id)
			result.Skipped = append(result.Skipped, SkippedPledge{PledgeID: id, Reason: reason})
		}

		for _, id := range pledgeIDs {
			if held[id] {
				skip(id, domain.SkipAlreadyAssigned)
				continue
			}

			pledge, err := s.pledgeRepo.LockByID(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					skip(id, domain.SkipNotFound)
					continue
				}
				return err
			}

			if pledge.AssignedFollowUpID != nil && *pledge.AssignedFollowUpID != staff.ID {
				skip(id, domain.SkipAssignedToOther)
				continue
			}

			if err := s.link(ctx, pledge, staff.ID); err != nil {
				return err
			}
			held[id] = true
			staff.AssignedPledges = append(staff.AssignedPledges, models.StaffAssignedPledge{StaffID: staff.ID, PledgeID: id})
			result.AssignedPledges = append(result.AssignedPledges, id)
		}

		result.FollowUp = staff.ToResponse()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bulk assignment finished",
		zap.Uint("followup_id", followUpID),
		zap.Int("assigned", len(result.AssignedPledges)),
		zap.Int("skipped", len(result.SkippedPledges)),
	)
	return result, nil
}

// Unassign clears the pledge's follow-up on both sides
func (s *AssignmentService) Unassign(ctx context.Context, pledgeID uint) (*models.Pledge, error) {
	var pledge *models.Pledge

	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		pledge, err = s.lockPledge(ctx, pledgeID)
		if err != nil {
			return err
		}
		return s.unlink(ctx, pledge)
	})
	if err != nil {
		return nil, err
	}
	return pledge, nil
}

// reassign points an already locked pledge at followUpID, or clears it when
// followUpID is nil or zero. Callers must hold a transaction.
func (s *AssignmentService) reassign(ctx context.Context, pledge *models.Pledge, followUpID *uint) error {
	if followUpID == nil || *followUpID == 0 {
		return s.unlink(ctx, pledge)
	}

	staff, err := s.loadFollowUp(ctx, *followUpID)
	if err != nil {
		return err
	}
	return s.link(ctx, pledge, staff.ID)
}

// link moves pledge to staffID, dropping it from any previous holder's set
func (s *AssignmentService) link(ctx context.Context, pledge *models.Pledge, staffID uint) error {
	if prev := pledge.AssignedFollowUpID; prev != nil && *prev != staffID {
		if err := s.staffRepo.RemoveAssignment(ctx, *prev, pledge.ID); err != nil {
			return err
		}
	}
	if err := s.staffRepo.AddAssignment(ctx, staffID, pledge.ID); err != nil {
		return err
	}
	if err := s.pledgeRepo.SetAssignedFollowUp(ctx, pledge.ID, &staffID); err != nil {
		return err
	}

	id := staffID
	pledge.AssignedFollowUpID = &id
	return nil
}

func (s *AssignmentService) unlink(ctx context.Context, pledge *models.Pledge) error {
	if pledge.AssignedFollowUpID == nil {
		return nil
	}
	if err := s.staffRepo.RemoveAssignment(ctx, *pledge.AssignedFollowUpID, pledge.ID); err != nil {
		return err
	}
	if err := s.pledgeRepo.SetAssignedFollowUp(ctx, pledge.ID, nil); err != nil {
		return err
	}
	pledge.AssignedFollowUpID = nil
	return nil
}

func (s *AssignmentService) loadFollowUp(ctx context.Context, id uint) (*models.StaffAccount, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if staff.Role != string(domain.RoleFollowUp) {
		return nil, ErrInvalidRole
	}
	if !staff.IsActive() {
		return nil, ErrStaffInactive
	}
	return staff, nil
}

func (s *AssignmentService) lockPledge(ctx context.Context, id uint) (*models.Pledge, error) {
	pledge, err := s.pledgeRepo.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPledgeNotFound
		}
		return nil, err
	}
	return pledge, nil
}
