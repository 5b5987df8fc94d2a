package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/pagination"
)

// LedgerPolicy carries billing policy knobs injected from configuration.
type LedgerPolicy struct {
	// AdmissionMonthPrepaid seeds a member's admission month as Paid when
	// their ledger year is first materialized (joining mid-month pre-pays
	// that month). When off, the admission month starts out Unpaid.
	AdmissionMonthPrepaid bool
}

// AuditServicer defines the contract for the hash-chained audit log.
type AuditServicer interface {
	// Append records one event, opening its own transaction and retrying a
	// bounded number of times when a concurrent append wins the race.
	Append(action string, payload any) (*models.AuditEvent, error)
	// AppendTx records one event inside a caller-owned transaction so the
	// audit append shares the caller's atomicity boundary. A chain conflict
	// is returned to the caller, who owns the retry (see withChainRetry).
	AppendTx(tx *gorm.DB, action string, payload any) (*models.AuditEvent, error)
	// Verify replays the whole chain and reports the first broken sequence,
	// if any. An empty log verifies clean.
	Verify() (*models.VerificationResult, error)
	ListEvents(page pagination.PageRequest, action string) (*pagination.PageResponse[models.AuditEvent], error)
}

// SettingsProvider exposes the globally mutable settings the billing core
// reads. It is an interface so tests can substitute fixed values.
type SettingsProvider interface {
	MonthlyPrice() int64
	CurrencyCode() string
	GymName() string
}

// SettingsServicer defines the contract for settings storage.
type SettingsServicer interface {
	SettingsProvider
	Get(key string) (string, error)
	Set(key, value string, actorID *string) error
	All() (map[string]string, error)
}

// CurrentStatus is the derived fee view for a member's current month.
type CurrentStatus struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"`
	Status     models.FeeStatus `json:"status"`
	LastAmount *int64           `json:"last_amount,omitempty"`
	LastPaidAt *time.Time       `json:"last_paid_at,omitempty"`
}

// MemberFeeRow is one member's status in the fees grid for a period.
type MemberFeeRow struct {
	Member models.Member    `json:"member"`
	Year   int              `json:"year"`
	Month  int              `json:"month"`
	Status models.FeeStatus `json:"status"`
}

// UnpaidMemberSummary aggregates a member's outstanding months.
type UnpaidMemberSummary struct {
	MemberID      string `json:"member_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	MonthsUnpaid  int    `json:"months_unpaid"`
	TotalDue      int64  `json:"total_due"`
	LastPaidYear  int    `json:"last_paid_year,omitempty"`
	LastPaidMonth int    `json:"last_paid_month,omitempty"`
}

// MonthHistoryEntry is one month in a member's payment history, admission
// month through the current month.
type MonthHistoryEntry struct {
	Year   int              `json:"year"`
	Month  int              `json:"month"`
	Status models.FeeStatus `json:"status"`
	Amount *int64           `json:"amount,omitempty"`
	PaidAt *time.Time       `json:"paid_at,omitempty"`
}

// PaymentServicer defines the contract for the monthly payment ledger.
type PaymentServicer interface {
	// EnsureYearRows materializes the 12 ledger rows for a member-year,
	// creating only the missing ones. Idempotent and safe to race with the
	// rollover job.
	EnsureYearRows(memberID string, year int) error
	// EnsureYearRowsForAll runs EnsureYearRows for every active member;
	// used by the periodic rollover job.
	EnsureYearRowsForAll(year int) error
	// MarkPaid settles one month, recording a transaction and an audit
	// event per call even when the status was already Paid.
	MarkPaid(memberID string, year, month int, actorID *string) (*models.Payment, error)
	// MarkYearPaid settles all twelve months of a year with one yearly
	// transaction and a single audit event.
	MarkYearPaid(memberID string, year int, actorID *string) error
	// MarkUnpaid forces a month to Unpaid, creating the row if absent.
	MarkUnpaid(memberID string, year, month int, actorID *string) (*models.Payment, error)
	// SetStatus is the manual override path for corrections.
	SetStatus(memberID string, year, month int, status models.FeeStatus, actorID *string) (*models.Payment, error)
	// CurrentStatus derives the member's fee state for the clock's current
	// month. Read-only; reports Unpaid when no row exists.
	CurrentStatus(memberID string) (*CurrentStatus, error)
	ListMemberPayments(memberID string) ([]models.Payment, error)
	FeesForPeriod(year, month int) ([]MemberFeeRow, error)
	UnpaidSummary() ([]UnpaidMemberSummary, error)
	MemberHistory(memberID string) ([]MonthHistoryEntry, error)
}

// HistoryOrder selects the ordering of a member's transaction history.
type HistoryOrder string

const (
	HistoryOldestFirst HistoryOrder = "oldest"
	HistoryNewestFirst HistoryOrder = "newest"
)

// TransactionServicer defines the contract for recording monetary
// transactions against ledger periods.
type TransactionServicer interface {
	// Record persists a transaction, flips the referenced ledger period(s)
	// to Paid, and appends the matching audit event, all inside a single
	// transactional boundary. A nil amount falls back through the
	// precedence chain: member fee override, then global monthly price,
	// then zero.
	Record(memberID string, plan models.PlanType, year int, month *int, amount *int64, method string, actorID *string) (*models.PaymentTransaction, error)
	// History returns a member's transactions in the requested order.
	// An empty history is an empty slice, never an error.
	History(memberID string, order HistoryOrder) ([]models.PaymentTransaction, error)
}

// MemberServicer defines the contract for member lifecycle operations.
type MemberServicer interface {
	CreateMember(name, phone, email string, admissionDate time.Time, plan models.PlanType, monthlyFee *int64, actorID *string) (*models.Member, error)
	GetMember(id string) (*models.Member, error)
	ListMembers(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error)
	UpdatePlan(id string, plan models.PlanType, actorID *string) (*models.Member, error)
	DeleteMember(id string, actorID *string) error
}

// UserServicer defines the contract for staff accounts.
type UserServicer interface {
	CreateUser(username, password string, role models.UserRole) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(username, password string) (*models.User, error)
}
