package services

import (
	"gorm.io/gorm"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/clock"
	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
)

// transactionService persists the monetary detail behind a Paid status and
// feeds the audit log.
type transactionService struct {
	db       *gorm.DB
	audit    AuditServicer
	settings SettingsProvider
	clk      clock.Clock
	policy   LedgerPolicy
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, audit AuditServicer, settings SettingsProvider, clk clock.Clock, policy LedgerPolicy) TransactionServicer {
	return &transactionService{
		db:       db,
		audit:    audit,
		settings: settings,
		clk:      clk,
		policy:   policy,
	}
}

// resolveAmount applies the display-amount precedence: explicit argument,
// then the member's individual fee override, then the global monthly price,
// then zero. One documented value, no attribute fallback chains.
func resolveAmount(explicit *int64, member *models.Member, settings SettingsProvider) int64 {
	if explicit != nil {
		return *explicit
	}
	if member.MonthlyFee != nil {
		return *member.MonthlyFee
	}
	return settings.MonthlyPrice()
}

// Record validates the payment, then runs the three-step mutation as one
// unit of work: persist the transaction, flip the ledger period(s) to Paid,
// append the audit event. If any step fails nothing is left behind; a lost
// audit chain race retries the whole unit.
func (s *transactionService) Record(memberID string, plan models.PlanType, year int, month *int, amount *int64, method string, actorID *string) (*models.PaymentTransaction, error) {
	switch plan {
	case models.PlanTypeMonthly:
		if month == nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "month is required for a monthly payment")
		}
		if err := validatePeriod(year, *month); err != nil {
			return nil, err
		}
	case models.PlanTypeYearly:
		if month != nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "month must be empty for a yearly payment")
		}
		if err := validateYear(year); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.ErrInvalidPlanType
	}
	if amount != nil && *amount < 0 {
		return nil, apperrors.ErrNegativeAmount
	}

	member, err := getMemberTx(s.db, memberID)
	if err != nil {
		return nil, err
	}
	resolved := resolveAmount(amount, member, s.settings)

	txn := &models.PaymentTransaction{
		MemberID: member.ID,
		UserID:   actorID,
		PlanType: plan,
		Year:     year,
		Month:    month,
		Amount:   resolved,
		Method:   method,
	}

	err = withChainRetry(s.db, func(tx *gorm.DB) error {
		// Re-create the record on retry; a lost chain race rolled the
		// previous attempt back entirely.
		txn.ID = ""

		if err := ensureYearRowsTx(tx, member, year, s.policy.AdmissionMonthPrepaid); err != nil {
			return err
		}

		if plan == models.PlanTypeMonthly {
			if _, err := setPeriodStatusTx(tx, member.ID, year, *month, models.FeeStatusPaid); err != nil {
				return err
			}
		} else {
			for m := 1; m <= 12; m++ {
				if _, err := setPeriodStatusTx(tx, member.ID, year, m, models.FeeStatusPaid); err != nil {
					return err
				}
			}
		}

		if err := tx.Create(txn).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}

		if plan == models.PlanTypeMonthly {
			_, err := s.audit.AppendTx(tx, models.ActionPaymentMonthly, models.PaymentTxnMonthlyPayload{
				SchemaVersion: models.AuditSchemaVersion,
				MemberID:      member.ID,
				Year:          year,
				Month:         *month,
				Amount:        resolved,
				Method:        method,
				UserID:        actorID,
			})
			return err
		}
		_, err := s.audit.AppendTx(tx, models.ActionPaymentYearly, models.PaymentTxnYearlyPayload{
			SchemaVersion: models.AuditSchemaVersion,
			MemberID:      member.ID,
			Year:          year,
			Amount:        resolved,
			Method:        method,
			UserID:        actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// History returns a member's transactions in the requested order. Empty
// histories come back as empty slices.
func (s *transactionService) History(memberID string, order HistoryOrder) ([]models.PaymentTransaction, error) {
	if _, err := getMemberTx(s.db, memberID); err != nil {
		return nil, err
	}

	sort := "created_at ASC"
	if order == HistoryNewestFirst {
		sort = "created_at DESC"
	}

	transactions := make([]models.PaymentTransaction, 0)
	if err := s.db.Where("member_id = ?", memberID).Order(sort).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return transactions, nil
}
