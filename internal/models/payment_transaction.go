package models

// PaymentTransaction records the monetary detail behind a Paid status.
// Month is nil for yearly lump-sum payments. Amount is in minor currency
// units. The newest transaction for a period is authoritative for the
// "amount paid" shown next to that period.
type PaymentTransaction struct {
	Base
	MemberID string   `gorm:"not null;index" json:"member_id"`
	UserID   *string  `json:"user_id,omitempty"`
	PlanType PlanType `gorm:"not null" json:"plan_type"`
	Year     int      `gorm:"not null;index" json:"year"`
	Month    *int     `gorm:"index" json:"month,omitempty"`
	Amount   int64    `gorm:"type:bigint;not null" json:"amount"`
	Method   string   `json:"method,omitempty"`

	Member Member `gorm:"foreignKey:MemberID" json:"-"`
}
