package repositories

import (
	"context"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// staffRepository implements StaffRepository interface
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create creates a new staff account
func (r *staffRepository) Create(ctx context.Context, staff *models.StaffAccount) error {
	return conn(ctx, r.db).Create(staff).Error
}

// GetByID gets a staff account by ID with its assigned pledge set
func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.StaffAccount, error) {
	var staff models.StaffAccount
	err := conn(ctx, r.db).
		Preload("AssignedPledges", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByEmail gets a staff account by normalized email
func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*models.StaffAccount, error) {
	var staff models.StaffAccount
	err := conn(ctx, r.db).
		Preload("AssignedPledges", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("email = ?", email).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// ExistsByEmail checks if email exists
func (r *staffRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.StaffAccount{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateLastLogin stamps the last successful login
func (r *staffRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return conn(ctx, r.db).
		Model(&models.StaffAccount{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// UpdateStatus sets active / inactive
func (r *staffRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return conn(ctx, r.db).
		Model(&models.StaffAccount{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdatePassword replaces the password hash
func (r *staffRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return conn(ctx, r.db).
		Model(&models.StaffAccount{}).
		Where("id = ?", id).
		Update("password", hash).Error
}

// ListByRole lists staff accounts of one role with pagination
func (r *staffRepository) ListByRole(ctx context.Context, role string, offset, limit int) ([]*models.StaffAccount, int64, error) {
	var staff []*models.StaffAccount
	var total int64

	if err := conn(ctx, r.db).Model(&models.StaffAccount{}).Where("role = ?", role).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := conn(ctx, r.db).
		Preload("AssignedPledges", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("role = ?", role).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&staff).Error
	if err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// CountByRole counts staff accounts of one role
func (r *staffRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.StaffAccount{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// AddAssignment adds pledgeID to the staff account's set. Adding twice is a no-op.
func (r *staffRepository) AddAssignment(ctx context.Context, staffID, pledgeID uint) error {
	link := &models.StaffAssignedPledge{StaffID: staffID, PledgeID: pledgeID}
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
}

// RemoveAssignment removes pledgeID from the staff account's set
func (r *staffRepository) RemoveAssignment(ctx context.Context, staffID, pledgeID uint) error {
	return conn(ctx, r.db).
		Where("staff_id = ? AND pledge_id = ?", staffID, pledgeID).
		Delete(&models.StaffAssignedPledge{}).Error
}

// ListAssignments returns every link row (repair sweep)
func (r *staffRepository) ListAssignments(ctx context.Context) ([]models.StaffAssignedPledge, error) {
	var links []models.StaffAssignedPledge
	err := conn(ctx, r.db).Order("id ASC").Find(&links).Error
	return links, err
}
