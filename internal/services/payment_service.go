package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/clock"
	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/logger"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
)

// paymentService maintains the Paid/Unpaid/N/A grid per member per month.
type paymentService struct {
	db       *gorm.DB
	recorder TransactionServicer
	audit    AuditServicer
	settings SettingsProvider
	clk      clock.Clock
	policy   LedgerPolicy
}

// NewPaymentService creates a new PaymentServicer.
func NewPaymentService(db *gorm.DB, recorder TransactionServicer, audit AuditServicer, settings SettingsProvider, clk clock.Clock, policy LedgerPolicy) PaymentServicer {
	return &paymentService{
		db:       db,
		recorder: recorder,
		audit:    audit,
		settings: settings,
		clk:      clk,
		policy:   policy,
	}
}

// validatePeriod rejects out-of-range months and implausible years rather
// than silently clamping them.
func validatePeriod(year, month int) error {
	if year < 1900 || year > 2999 {
		return apperrors.WithMessage(apperrors.ErrInvalidPeriod, fmt.Sprintf("year %d is out of range", year))
	}
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidPeriod, fmt.Sprintf("month %d is out of range", month))
	}
	return nil
}

func validateYear(year int) error {
	if year < 1900 || year > 2999 {
		return apperrors.WithMessage(apperrors.ErrInvalidPeriod, fmt.Sprintf("year %d is out of range", year))
	}
	return nil
}

// initialStatus computes the seed status for one month of a member's ledger:
// months whose first day precedes the admission date are N/A, the admission
// month itself is Paid when the prepaid policy is on, everything else starts
// Unpaid.
func initialStatus(member *models.Member, year, month int, prepaid bool) models.FeeStatus {
	admission := member.AdmissionDate
	if year == admission.Year() && time.Month(month) == admission.Month() {
		if prepaid {
			return models.FeeStatusPaid
		}
		return models.FeeStatusUnpaid
	}
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	admissionDay := time.Date(admission.Year(), admission.Month(), admission.Day(), 0, 0, 0, 0, time.UTC)
	if firstDay.Before(admissionDay) {
		return models.FeeStatusNA
	}
	return models.FeeStatusUnpaid
}

// ensureYearRowsTx inserts the missing ledger rows for a member-year inside
// the given transaction. Existing rows are never touched: the insert carries
// an ON CONFLICT DO NOTHING on the (member_id, year, month) unique index, so
// a race with the rollover job degenerates to a redundant no-op insert.
func ensureYearRowsTx(tx *gorm.DB, member *models.Member, year int, prepaid bool) error {
	rows := make([]models.Payment, 0, 12)
	for month := 1; month <= 12; month++ {
		rows = append(rows, models.Payment{
			MemberID: member.ID,
			Year:     year,
			Month:    month,
			Status:   initialStatus(member, year, month, prepaid),
		})
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "year"}, {Name: "month"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// setPeriodStatusTx upserts one ledger row to the given status.
func setPeriodStatusTx(tx *gorm.DB, memberID string, year, month int, status models.FeeStatus) (*models.Payment, error) {
	var row models.Payment
	err := tx.Where("member_id = ? AND year = ? AND month = ?", memberID, year, month).First(&row).Error
	switch {
	case err == nil:
		if row.Status != status {
			row.Status = status
			if err := tx.Model(&row).Update("status", status).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrStorage, err)
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.Payment{MemberID: memberID, Year: year, Month: month, Status: status}
		if err := tx.Create(&row).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
	default:
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &row, nil
}

func getMemberTx(tx *gorm.DB, id string) (*models.Member, error) {
	var member models.Member
	if err := tx.Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &member, nil
}

// EnsureYearRows lazily materializes a member's 12 rows for a year.
// Calling it any number of times yields the same 12 rows with no status
// changes to existing ones.
func (s *paymentService) EnsureYearRows(memberID string, year int) error {
	if err := validateYear(year); err != nil {
		return err
	}
	member, err := getMemberTx(s.db, memberID)
	if err != nil {
		return err
	}
	return ensureYearRowsTx(s.db, member, year, s.policy.AdmissionMonthPrepaid)
}

// EnsureYearRowsForAll is the rollover entry point: one insert-only pass
// over every active member. Per-member failures are logged and skipped so a
// single bad row cannot stall the whole job.
func (s *paymentService) EnsureYearRowsForAll(year int) error {
	if err := validateYear(year); err != nil {
		return err
	}
	var members []models.Member
	if err := s.db.Where("is_active = ?", true).Find(&members).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	for i := range members {
		if err := ensureYearRowsTx(s.db, &members[i], year, s.policy.AdmissionMonthPrepaid); err != nil {
			logger.Get().Errorw("rollover: failed to ensure payment rows",
				"member_id", members[i].ID,
				"year", year,
				"error", err,
			)
		}
	}
	return nil
}

// MarkPaid settles a single month through the transaction recorder, so the
// status flip, the transaction row, and the audit event land atomically.
func (s *paymentService) MarkPaid(memberID string, year, month int, actorID *string) (*models.Payment, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	m := month
	if _, err := s.recorder.Record(memberID, models.PlanTypeMonthly, year, &m, nil, "", actorID); err != nil {
		return nil, err
	}
	var row models.Payment
	if err := s.db.Where("member_id = ? AND year = ? AND month = ?", memberID, year, month).First(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &row, nil
}

// MarkYearPaid settles all twelve months with one yearly transaction and a
// single audit event.
func (s *paymentService) MarkYearPaid(memberID string, year int, actorID *string) error {
	if err := validateYear(year); err != nil {
		return err
	}
	_, err := s.recorder.Record(memberID, models.PlanTypeYearly, year, nil, nil, "", actorID)
	return err
}

// MarkUnpaid forces a month to Unpaid regardless of current state. This is
// the manual correction path; it is audited but records no transaction.
func (s *paymentService) MarkUnpaid(memberID string, year, month int, actorID *string) (*models.Payment, error) {
	return s.SetStatus(memberID, year, month, models.FeeStatusUnpaid, actorID)
}

// SetStatus is the manual override path: it rewrites one row's status and
// appends a payment.update audit event in the same transaction.
func (s *paymentService) SetStatus(memberID string, year, month int, status models.FeeStatus, actorID *string) (*models.Payment, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidFeeStatus
	}
	if _, err := getMemberTx(s.db, memberID); err != nil {
		return nil, err
	}

	var row *models.Payment
	err := withChainRetry(s.db, func(tx *gorm.DB) error {
		var txErr error
		row, txErr = setPeriodStatusTx(tx, memberID, year, month, status)
		if txErr != nil {
			return txErr
		}
		_, txErr = s.audit.AppendTx(tx, models.ActionPaymentUpdate, models.PaymentUpdatePayload{
			SchemaVersion: models.AuditSchemaVersion,
			MemberID:      memberID,
			Year:          year,
			Month:         month,
			Status:        string(status),
			UserID:        actorID,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// CurrentStatus reports the member's fee state for the clock's current
// month: ledger status plus the newest transaction covering that period.
// Never mutates state; a missing row reads as Unpaid with no amount.
func (s *paymentService) CurrentStatus(memberID string) (*CurrentStatus, error) {
	if _, err := getMemberTx(s.db, memberID); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	result := &CurrentStatus{
		Year:   now.Year(),
		Month:  int(now.Month()),
		Status: models.FeeStatusUnpaid,
	}

	var row models.Payment
	err := s.db.Where("member_id = ? AND year = ? AND month = ?", memberID, result.Year, result.Month).First(&row).Error
	if err == nil {
		result.Status = row.Status
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	// A yearly lump sum (month IS NULL) covers the current month too.
	var txn models.PaymentTransaction
	err = s.db.Where("member_id = ? AND year = ? AND (month = ? OR month IS NULL)", memberID, result.Year, result.Month).
		Order("created_at DESC").
		First(&txn).Error
	if err == nil {
		amount := txn.Amount
		paidAt := txn.CreatedAt
		result.LastAmount = &amount
		result.LastPaidAt = &paidAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	return result, nil
}

// ListMemberPayments returns all materialized rows for a member in calendar order.
func (s *paymentService) ListMemberPayments(memberID string) ([]models.Payment, error) {
	if _, err := getMemberTx(s.db, memberID); err != nil {
		return nil, err
	}
	var rows []models.Payment
	if err := s.db.Where("member_id = ?", memberID).Order("year, month").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return rows, nil
}

// FeesForPeriod materializes and returns every active member's status for
// one month, the grid the fees screen renders.
func (s *paymentService) FeesForPeriod(year, month int) ([]MemberFeeRow, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	var members []models.Member
	if err := s.db.Where("is_active = ?", true).Order("created_at").Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	rows := make([]MemberFeeRow, 0, len(members))
	for i := range members {
		member := &members[i]
		if err := ensureYearRowsTx(s.db, member, year, s.policy.AdmissionMonthPrepaid); err != nil {
			return nil, err
		}
		var row models.Payment
		status := models.FeeStatusUnpaid
		err := s.db.Where("member_id = ? AND year = ? AND month = ?", member.ID, year, month).First(&row).Error
		if err == nil {
			status = row.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		rows = append(rows, MemberFeeRow{Member: *member, Year: year, Month: month, Status: status})
	}
	return rows, nil
}

// UnpaidSummary aggregates outstanding months per member for the reminder
// screen. The per-member due amount uses the same precedence as payment
// recording: fee override first, then the global monthly price.
func (s *paymentService) UnpaidSummary() ([]UnpaidMemberSummary, error) {
	var members []models.Member
	if err := s.db.Where("is_active = ?", true).Order("created_at").Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	summaries := make([]UnpaidMemberSummary, 0)
	for i := range members {
		member := &members[i]

		var unpaid int64
		if err := s.db.Model(&models.Payment{}).
			Where("member_id = ? AND status = ?", member.ID, models.FeeStatusUnpaid).
			Count(&unpaid).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		if unpaid == 0 {
			continue
		}

		monthlyDue := s.settings.MonthlyPrice()
		if member.MonthlyFee != nil {
			monthlyDue = *member.MonthlyFee
		}

		summary := UnpaidMemberSummary{
			MemberID:     member.ID,
			Name:         member.Name,
			Phone:        member.Phone,
			MonthsUnpaid: int(unpaid),
			TotalDue:     unpaid * monthlyDue,
		}

		var lastPaid models.Payment
		err := s.db.Where("member_id = ? AND status = ?", member.ID, models.FeeStatusPaid).
			Order("year DESC, month DESC").
			First(&lastPaid).Error
		if err == nil {
			summary.LastPaidYear = lastPaid.Year
			summary.LastPaidMonth = lastPaid.Month
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MemberHistory walks every month from the admission month through the
// clock's current month, pairing the ledger status with the newest
// transaction for each month.
func (s *paymentService) MemberHistory(memberID string) ([]MonthHistoryEntry, error) {
	member, err := getMemberTx(s.db, memberID)
	if err != nil {
		return nil, err
	}

	var payments []models.Payment
	if err := s.db.Where("member_id = ?", memberID).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	statusByPeriod := make(map[[2]int]models.FeeStatus, len(payments))
	for _, p := range payments {
		statusByPeriod[[2]int{p.Year, p.Month}] = p.Status
	}

	now := s.clk.Now()
	year, month := member.AdmissionDate.Year(), int(member.AdmissionDate.Month())
	endYear, endMonth := now.Year(), int(now.Month())

	entries := make([]MonthHistoryEntry, 0)
	for year < endYear || (year == endYear && month <= endMonth) {
		status, ok := statusByPeriod[[2]int{year, month}]
		if !ok {
			status = models.FeeStatusUnpaid
		}
		entry := MonthHistoryEntry{Year: year, Month: month, Status: status}

		if status == models.FeeStatusPaid {
			var txn models.PaymentTransaction
			err := s.db.Where("member_id = ? AND year = ? AND (month = ? OR month IS NULL)", memberID, year, month).
				Order("created_at DESC").
				First(&txn).Error
			if err == nil {
				amount := txn.Amount
				paidAt := txn.CreatedAt
				entry.Amount = &amount
				entry.PaidAt = &paidAt
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Wrap(apperrors.ErrStorage, err)
			}
		}

		entries = append(entries, entry)
		if month == 12 {
			year++
			month = 1
		} else {
			month++
		}
	}
	return entries, nil
}
