package repositories

import (
	"context"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pledgeUpdateColumns are the columns written by UpdateFields.
// Assignment and archive flags have their own setters.
var pledgeUpdateColumns = []string{
	"full_name",
	"phone_number",
	"alt_phone_number",
	"email",
	"promised_amount",
	"contribution_type",
	"material_type",
	"material_quantity",
	"other_description",
	"promised_start_date",
	"promised_end_date",
	"paper_form_image",
	"amount_paid",
	"remaining_amount",
	"percentage_paid",
	"status",
	"overdue",
	"monthly_installment_amount",
	"next_due_date",
	"updated_at",
}

// pledgeRepository implements PledgeRepository interface
type pledgeRepository struct {
	db *gorm.DB
}

// NewPledgeRepository creates a new pledge repository
func NewPledgeRepository(db *gorm.DB) PledgeRepository {
	return &pledgeRepository{db: db}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// Create creates a new pledge together with any initial payments
func (r *pledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	return conn(ctx, r.db).Create(pledge).Error
}

// GetByID gets a pledge with its payment history and remarks
func (r *pledgeRepository) GetByID(ctx context.Context, id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	err := conn(ctx, r.db).
		Preload("Payments", orderByID).
		Preload("Remarks", orderByID).
		Where("id = ?", id).
		First(&pledge).Error
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

// LockByID is GetByID with a row lock held until the surrounding transaction ends
func (r *pledgeRepository) LockByID(ctx context.Context, id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Payments", orderByID).
		Preload("Remarks", orderByID).
		Where("id = ?", id).
		First(&pledge).Error
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

// UpdateFields writes the editable and derived columns of pledge
func (r *pledgeRepository) UpdateFields(ctx context.Context, pledge *models.Pledge) error {
	return conn(ctx, r.db).
		Model(&models.Pledge{ID: pledge.ID}).
		Select(pledgeUpdateColumns).
		Updates(pledge).Error
}

// AddPayment appends one payment entry
func (r *pledgeRepository) AddPayment(ctx context.Context, payment *models.PledgePayment) error {
	return conn(ctx, r.db).Create(payment).Error
}

// AddRemark appends one remark entry
func (r *pledgeRepository) AddRemark(ctx context.Context, remark *models.PledgeRemark) error {
	return conn(ctx, r.db).Create(remark).Error
}

// SetAssignedFollowUp points the pledge at staffID, or clears it when nil
func (r *pledgeRepository) SetAssignedFollowUp(ctx context.Context, pledgeID uint, staffID *uint) error {
	return conn(ctx, r.db).
		Model(&models.Pledge{}).
		Where("id = ?", pledgeID).
		Update("assigned_follow_up_id", staffID).Error
}

// SetArchived flips the archive flag
func (r *pledgeRepository) SetArchived(ctx context.Context, id uint, archived bool) error {
	return conn(ctx, r.db).
		Model(&models.Pledge{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}

func applyPledgeFilter(db *gorm.DB, f PledgeFilter) *gorm.DB {
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.ContributionType != nil {
		db = db.Where("contribution_type = ?", *f.ContributionType)
	}
	if f.Overdue != nil {
		db = db.Where("overdue = ?", *f.Overdue)
	}
	if f.Archived != nil {
		db = db.Where("archived = ?", *f.Archived)
	}
	if f.AssignedFollowUpID != nil {
		db = db.Where("assigned_follow_up_id = ?", *f.AssignedFollowUpID)
	}
	if f.Unassigned {
		db = db.Where("assigned_follow_up_id IS NULL")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("(full_name LIKE ? OR phone_number LIKE ? OR alt_phone_number LIKE ?)", like, like, like)
	}
	return db
}

// List lists pledges matching filter with pagination, newest first
func (r *pledgeRepository) List(ctx context.Context, filter PledgeFilter, offset, limit int) ([]*models.Pledge, int64, error) {
	var pledges []*models.Pledge
	var total int64

	if err := applyPledgeFilter(conn(ctx, r.db).Model(&models.Pledge{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyPledgeFilter(conn(ctx, r.db), filter).
		Preload("Payments", orderByID).
		Preload("Remarks", orderByID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&pledges).Error
	if err != nil {
		return nil, 0, err
	}

	return pledges, total, nil
}

// ListAll lists every pledge matching filter, oldest first
func (r *pledgeRepository) ListAll(ctx context.Context, filter PledgeFilter) ([]*models.Pledge, error) {
	var pledges []*models.Pledge
	err := applyPledgeFilter(conn(ctx, r.db), filter).
		Preload("Payments", orderByID).
		Order("id ASC").
		Find(&pledges).Error
	return pledges, err
}

// ListAssignmentRefs returns (pledge, assignee) for every assigned pledge
func (r *pledgeRepository) ListAssignmentRefs(ctx context.Context) ([]AssignmentRef, error) {
	var refs []AssignmentRef
	err := conn(ctx, r.db).
		Model(&models.Pledge{}).
		Select("id AS pledge_id, assigned_follow_up_id").
		Where("assigned_follow_up_id IS NOT NULL").
		Order("id ASC").
		Scan(&refs).Error
	return refs, err
}

// UpdateOverdue persists the overdue flag as of now for every pledge whose flag is stale
func (r *pledgeRepository) UpdateOverdue(ctx context.Context, now time.Time) (int64, error) {
	var changed int64

	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Pledge{}).
			Where("overdue = ? AND promised_end_date < ? AND remaining_amount > 0", false, now).
			Update("overdue", true)
		if res.Error != nil {
			return res.Error
		}
		changed += res.RowsAffected

		res = tx.Model(&models.Pledge{}).
			Where("overdue = ? AND (promised_end_date >= ? OR remaining_amount <= 0)", true, now).
			Update("overdue", false)
		if res.Error != nil {
			return res.Error
		}
		changed += res.RowsAffected
		return nil
	})

	return changed, err
}

// SumTotals folds amount_paid and remaining_amount over non-archived pledges
func (r *pledgeRepository) SumTotals(ctx context.Context) (*CollectionTotals, error) {
	var row struct {
		TotalCollected decimal.Decimal
		TotalRemaining decimal.Decimal
		PledgeCount    int64
	}

	err := conn(ctx, r.db).
		Model(&models.Pledge{}).
		Select("COALESCE(SUM(amount_paid), 0) AS total_collected, COALESCE(SUM(remaining_amount), 0) AS total_remaining, COUNT(*) AS pledge_count").
		Where("archived = ?", false).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &CollectionTotals{
		TotalCollected: row.TotalCollected,
		TotalRemaining: row.TotalRemaining,
		PledgeCount:    row.PledgeCount,
	}, nil
}

// SumPaymentsBetween sums payments dated within [start, until) on non-archived pledges
func (r *pledgeRepository) SumPaymentsBetween(ctx context.Context, start, until time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}

	err := conn(ctx, r.db).
		Table("pledge_payments").
		Select("COALESCE(SUM(pledge_payments.amount), 0) AS total, COUNT(pledge_payments.id) AS count").
		Joins("JOIN pledges ON pledges.id = pledge_payments.pledge_id").
		Where("pledges.archived = ?", false).
		Where("pledge_payments.date >= ? AND pledge_payments.date < ?", start, until).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	return row.Total, row.Count, nil
}

// CountByFollowUp counts the staff account's assigned non-archived pledges and how many are paid
func (r *pledgeRepository) CountByFollowUp(ctx context.Context, staffID uint) (*FollowUpCounts, error) {
	var row struct {
		Total     int64
		Collected int64
	}

	err := conn(ctx, r.db).
		Table("staff_assigned_pledges").
		Select("COUNT(pledges.id) AS total, COALESCE(SUM(CASE WHEN pledges.status = 'paid' THEN 1 ELSE 0 END), 0) AS collected").
		Joins("JOIN pledges ON pledges.id = staff_assigned_pledges.pledge_id").
		Where("staff_assigned_pledges.staff_id = ?", staffID).
		Where("pledges.archived = ?", false).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &FollowUpCounts{Total: row.Total, Collected: row.Collected}, nil
}
