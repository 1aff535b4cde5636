package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Staff & Auth Tables
// ============================================================

// StaffAccount represents staff_accounts table
type StaffAccount struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	FirstName  string     `gorm:"size:100;not null" json:"first_name"`
	MiddleName string     `gorm:"size:100;not null" json:"middle_name"`
	Email      string     `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Password   string     `gorm:"size:255;not null" json:"-"`
	Role       string     `gorm:"size:20;not null;default:'followUp';index" json:"role"`
	Status     string     `gorm:"size:20;not null;default:'active'" json:"status"`
	LastLogin  *time.Time `json:"last_login"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	AssignedPledges []StaffAssignedPledge `gorm:"foreignKey:StaffID" json:"-"`
}

func (StaffAccount) TableName() string {
	return "staff_accounts"
}

// IsActive reports whether the account may log in and take assignments
func (s *StaffAccount) IsActive() bool {
	return s.Status == "active"
}

// AssignedPledgeIDs returns the ids of the account's assigned pledge set
func (s *StaffAccount) AssignedPledgeIDs() []uint {
	ids := make([]uint, 0, len(s.AssignedPledges))
	for _, a := range s.AssignedPledges {
		ids = append(ids, a.PledgeID)
	}
	return ids
}

// HasPledge reports whether pledgeID is in the account's assigned set
func (s *StaffAccount) HasPledge(pledgeID uint) bool {
	for _, a := range s.AssignedPledges {
		if a.PledgeID == pledgeID {
			return true
		}
	}
	return false
}

// StaffResponse DTO
type StaffResponse struct {
	ID              uint       `json:"id"`
	FirstName       string     `json:"first_name"`
	MiddleName      string     `json:"middle_name"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	LastLogin       *time.Time `json:"last_login"`
	AssignedPledges []uint     `json:"assigned_pledges"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (s *StaffAccount) ToResponse() *StaffResponse {
	return &StaffResponse{
		ID:              s.ID,
		FirstName:       s.FirstName,
		MiddleName:      s.MiddleName,
		Email:           s.Email,
		Role:            s.Role,
		Status:          s.Status,
		LastLogin:       s.LastLogin,
		AssignedPledges: s.AssignedPledgeIDs(),
		CreatedAt:       s.CreatedAt,
	}
}

// StaffAssignedPledge is one entry of a staff account's assigned pledge set
type StaffAssignedPledge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StaffID   uint      `gorm:"not null;uniqueIndex:idx_staff_pledge" json:"staff_id"`
	PledgeID  uint      `gorm:"not null;uniqueIndex:idx_staff_pledge;index" json:"pledge_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StaffAssignedPledge) TableName() string {
	return "staff_assigned_pledges"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StaffID   uint       `gorm:"index;not null" json:"staff_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Pledge Tables
// ============================================================

// Pledge represents pledges table
type Pledge struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	FullName       string `gorm:"size:150;not null" json:"full_name"`
	PhoneNumber    string `gorm:"size:30;not null;index" json:"phone_number"`
	AltPhoneNumber string `gorm:"size:30" json:"alt_phone_number"`
	Email          string `gorm:"size:150" json:"email"`

	PromisedAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"promised_amount"`
	ContributionType string          `gorm:"size:20;not null;index" json:"contribution_type"`
	MaterialType     string          `gorm:"size:100" json:"material_type"`
	MaterialQuantity *float64        `json:"material_quantity"`
	OtherDescription string          `gorm:"type:text" json:"other_description"`

	PromisedStartDate time.Time `gorm:"not null" json:"promised_start_date"`
	PromisedEndDate   time.Time `gorm:"not null;index" json:"promised_end_date"`

	PaperFormImage string `gorm:"size:500;not null" json:"paper_form_image"`

	// Derived, written only by reconciliation
	AmountPaid      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount_paid"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"remaining_amount"`
	PercentagePaid  decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0" json:"percentage_paid"`
	Status          string          `gorm:"size:20;not null;default:'notPaid';index" json:"status"`
	Overdue         bool            `gorm:"not null;default:false;index" json:"overdue"`

	MonthlyInstallmentAmount *decimal.Decimal `gorm:"type:decimal(15,2)" json:"monthly_installment_amount"`
	NextDueDate              *time.Time       `json:"next_due_date"`

	AssignedFollowUpID *uint `gorm:"index" json:"assigned_followup"`
	Archived           bool  `gorm:"not null;default:false;index" json:"archived"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Payments []PledgePayment `gorm:"foreignKey:PledgeID" json:"payment_history"`
	Remarks  []PledgeRemark  `gorm:"foreignKey:PledgeID" json:"remarks"`
}

func (Pledge) TableName() string {
	return "pledges"
}

// PledgeResponse DTO
type PledgeResponse struct {
	ID                       uint               `json:"id"`
	FullName                 string             `json:"full_name"`
	PhoneNumber              string             `json:"phone_number"`
	AltPhoneNumber           string             `json:"alt_phone_number,omitempty"`
	Email                    string             `json:"email,omitempty"`
	PromisedAmount           decimal.Decimal    `json:"promised_amount"`
	ContributionType         string             `json:"contribution_type"`
	MaterialType             string             `json:"material_type,omitempty"`
	MaterialQuantity         *float64           `json:"material_quantity,omitempty"`
	OtherDescription         string             `json:"other_description,omitempty"`
	PromisedStartDate        time.Time          `json:"promised_start_date"`
	PromisedEndDate          time.Time          `json:"promised_end_date"`
	PaperFormImage           string             `json:"paper_form_image"`
	AmountPaid               decimal.Decimal    `json:"amount_paid"`
	RemainingAmount          decimal.Decimal    `json:"remaining_amount"`
	PercentagePaid           decimal.Decimal    `json:"percentage_paid"`
	Status                   string             `json:"status"`
	Overdue                  bool               `json:"overdue"`
	MonthlyInstallmentAmount *decimal.Decimal   `json:"monthly_installment_amount,omitempty"`
	NextDueDate              *time.Time         `json:"next_due_date,omitempty"`
	AssignedFollowUp         *uint              `json:"assigned_followup"`
	Archived                 bool               `json:"archived"`
	PaymentHistory           []PaymentResponse  `json:"payment_history"`
	Remarks                  []RemarkResponse   `json:"remarks"`
	CreatedAt                time.Time          `json:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at"`
}

func (p *Pledge) ToResponse() *PledgeResponse {
	resp := &PledgeResponse{
		ID:                       p.ID,
		FullName:                 p.FullName,
		PhoneNumber:              p.PhoneNumber,
		AltPhoneNumber:           p.AltPhoneNumber,
		Email:                    p.Email,
		PromisedAmount:           p.PromisedAmount,
		ContributionType:         p.ContributionType,
		MaterialType:             p.MaterialType,
		MaterialQuantity:         p.MaterialQuantity,
		OtherDescription:         p.OtherDescription,
		PromisedStartDate:        p.PromisedStartDate,
		PromisedEndDate:          p.PromisedEndDate,
		PaperFormImage:           p.PaperFormImage,
		AmountPaid:               p.AmountPaid,
		RemainingAmount:          p.RemainingAmount,
		PercentagePaid:           p.PercentagePaid,
		Status:                   p.Status,
		Overdue:                  p.Overdue,
		MonthlyInstallmentAmount: p.MonthlyInstallmentAmount,
		NextDueDate:              p.NextDueDate,
		AssignedFollowUp:         p.AssignedFollowUpID,
		Archived:                 p.Archived,
		PaymentHistory:           make([]PaymentResponse, 0, len(p.Payments)),
		Remarks:                  make([]RemarkResponse, 0, len(p.Remarks)),
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
	}

	for _, pay := range p.Payments {
		resp.PaymentHistory = append(resp.PaymentHistory, PaymentResponse{
			Amount: pay.Amount,
			Method: pay.Method,
			Date:   pay.Date,
		})
	}
	for _, r := range p.Remarks {
		resp.Remarks = append(resp.Remarks, RemarkResponse{
			FollowUpID: r.AuthorID,
			Comment:    r.Comment,
			Date:       r.Date,
		})
	}

	return resp
}

// PledgePayment is one entry of a pledge's append-only payment history
type PledgePayment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	PledgeID  uint            `gorm:"not null;index" json:"pledge_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method    string          `gorm:"size:50;not null;default:'unknown'" json:"method"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PledgePayment) TableName() string {
	return "pledge_payments"
}

// PaymentResponse DTO
type PaymentResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Date   time.Time       `json:"date"`
}

// PledgeRemark is one entry of a pledge's append-only remark log
type PledgeRemark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PledgeID  uint      `gorm:"not null;index" json:"pledge_id"`
	AuthorID  uint      `gorm:"not null" json:"followup_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Date      time.Time `gorm:"not null" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PledgeRemark) TableName() string {
	return "pledge_remarks"
}

// RemarkResponse DTO
type RemarkResponse struct {
	FollowUpID uint      `json:"followup_id"`
	Comment    string    `json:"comment"`
	Date       time.Time `json:"date"`
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StaffAccount{},
		&StaffAssignedPledge{},
		&RefreshToken{},
		&Pledge{},
		&PledgePayment{},
		&PledgeRemark{},
	)
}
