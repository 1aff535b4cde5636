package domain

// Role represents a staff role
type Role string

const (
	RoleSuperAdmin Role = "superAdmin"
	RoleAdmin      Role = "admin"
	RoleFollowUp   Role = "followUp"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleFollowUp:
		return true
	}
	return false
}

// IsAdmin reports whether r may manage pledges and staff
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// StaffStatus is the account activation state
type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
)

// IsValid reports whether s is active or inactive
func (s StaffStatus) IsValid() bool {
	return s == StaffActive || s == StaffInactive
}

// ContributionType is the kind of commitment a donor made
type ContributionType string

const (
	ContributionOneTime  ContributionType = "oneTime"
	ContributionMonthly  ContributionType = "monthly"
	ContributionMaterial ContributionType = "material"
	ContributionOther    ContributionType = "other"
)

// IsValid reports whether t is a known contribution type
func (t ContributionType) IsValid() bool {
	switch t {
	case ContributionOneTime, ContributionMonthly, ContributionMaterial, ContributionOther:
		return true
	}
	return false
}

// PledgeStatus is derived from the payment total
type PledgeStatus string

const (
	PledgeNotPaid PledgeStatus = "notPaid"
	PledgePartial PledgeStatus = "partial"
	PledgePaid    PledgeStatus = "paid"
)

// IsValid reports whether s is a known pledge status
func (s PledgeStatus) IsValid() bool {
	return s == PledgeNotPaid || s == PledgePartial || s == PledgePaid
}

// DefaultPaymentMethod is recorded when a payment carries no method
const DefaultPaymentMethod = "unknown"

// SkipReason explains why a pledge was left out of a bulk assignment
type SkipReason string

const (
	SkipNotFound        SkipReason = "not_found"
	SkipAlreadyAssigned SkipReason = "already_assigned"
	SkipAssignedToOther SkipReason = "assigned_to_other"
)
