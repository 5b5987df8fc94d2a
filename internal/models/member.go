package models

import "time"

// PlanType represents a member's billing plan.
type PlanType string

const (
	PlanTypeMonthly PlanType = "monthly"
	PlanTypeYearly  PlanType = "yearly"
)

// Member represents a gym member. AdmissionDate drives the payment ledger:
// months before it are N/A, and the admission month itself may be seeded as
// pre-paid depending on configuration. MonthlyFee, when set, overrides the
// global monthly price for this member.
type Member struct {
	Base
	Name          string     `gorm:"not null;index" json:"name"`
	Phone         string     `gorm:"index" json:"phone"`
	Email         string     `json:"email,omitempty"`
	AdmissionDate time.Time  `gorm:"not null" json:"admission_date"`
	PlanType      PlanType   `gorm:"not null;default:monthly" json:"plan_type"`
	MonthlyFee    *int64     `json:"monthly_fee,omitempty"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
}
