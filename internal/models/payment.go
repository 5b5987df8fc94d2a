package models

// FeeStatus is the settlement state of one member-month.
type FeeStatus string

const (
	// FeeStatusPaid marks a settled month.
	FeeStatusPaid FeeStatus = "Paid"
	// FeeStatusUnpaid marks a due-but-unpaid month.
	FeeStatusUnpaid FeeStatus = "Unpaid"
	// FeeStatusNA marks a month preceding the member's admission date,
	// excluded from due/paid accounting.
	FeeStatusNA FeeStatus = "N/A"
)

// Valid reports whether s is one of the three known statuses.
func (s FeeStatus) Valid() bool {
	switch s {
	case FeeStatusPaid, FeeStatusUnpaid, FeeStatusNA:
		return true
	}
	return false
}

// Payment is one cell of the per-member monthly fee grid. The composite
// unique index is what makes concurrent row materialization safe: racing
// inserts for the same member-month collapse to one row plus a duplicate-key
// error the ledger treats as "already exists".
type Payment struct {
	Base
	MemberID string    `gorm:"not null;uniqueIndex:idx_payments_member_period;index" json:"member_id"`
	Year     int       `gorm:"not null;uniqueIndex:idx_payments_member_period" json:"year"`
	Month    int       `gorm:"not null;uniqueIndex:idx_payments_member_period" json:"month"`
	Status   FeeStatus `gorm:"not null;index" json:"status"`

	Member Member `gorm:"foreignKey:MemberID" json:"-"`
}
