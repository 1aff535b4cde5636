package repositories

import (
	"context"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

// StaffRepository defines staff account repository interface
type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffAccount) error
	GetByID(ctx context.Context, id uint) (*models.StaffAccount, error)
	GetByEmail(ctx context.Context, email string) (*models.StaffAccount, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	ListByRole(ctx context.Context, role string, offset, limit int) ([]*models.StaffAccount, int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)

	// Assigned pledge set
	AddAssignment(ctx context.Context, staffID, pledgeID uint) error
	RemoveAssignment(ctx context.Context, staffID, pledgeID uint) error
	ListAssignments(ctx context.Context) ([]models.StaffAssignedPledge, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByStaffID(ctx context.Context, staffID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// PledgeFilter narrows pledge listings. Nil fields are ignored.
type PledgeFilter struct {
	Status             *string
	ContributionType   *string
	Overdue            *bool
	Archived           *bool
	AssignedFollowUpID *uint
	Unassigned         bool
	Search             string
}

// CollectionTotals is the aggregate over non-archived pledges
type CollectionTotals struct {
	TotalCollected decimal.Decimal `json:"totalCollected"`
	TotalRemaining decimal.Decimal `json:"totalRemaining"`
	PledgeCount    int64           `json:"pledgeCount"`
}

// FollowUpCounts is the aggregate over a staff account's assigned set
type FollowUpCounts struct {
	Total     int64
	Collected int64
}

// AssignmentRef is a pledge's view of its assignee
type AssignmentRef struct {
	PledgeID           uint
	AssignedFollowUpID uint
}

// PledgeRepository defines pledge repository interface
type PledgeRepository interface {
	Create(ctx context.Context, pledge *models.Pledge) error
	GetByID(ctx context.Context, id uint) (*models.Pledge, error)
	LockByID(ctx context.Context, id uint) (*models.Pledge, error)
	UpdateFields(ctx context.Context, pledge *models.Pledge) error
	AddPayment(ctx context.Context, payment *models.PledgePayment) error
	AddRemark(ctx context.Context, remark *models.PledgeRemark) error
	SetAssignedFollowUp(ctx context.Context, pledgeID uint, staffID *uint) error
	SetArchived(ctx context.Context, id uint, archived bool) error
	List(ctx context.Context, filter PledgeFilter, offset, limit int) ([]*models.Pledge, int64, error)
	ListAll(ctx context.Context, filter PledgeFilter) ([]*models.Pledge, error)
	ListAssignmentRefs(ctx context.Context) ([]AssignmentRef, error)
	UpdateOverdue(ctx context.Context, now time.Time) (int64, error)

	// Reporting
	SumTotals(ctx context.Context) (*CollectionTotals, error)
	SumPaymentsBetween(ctx context.Context, start, until time.Time) (decimal.Decimal, int64, error)
	CountByFollowUp(ctx context.Context, staffID uint) (*FollowUpCounts, error)
}

// TxManager runs a function inside a database transaction.
// Repositories called with the context passed to fn share the transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
