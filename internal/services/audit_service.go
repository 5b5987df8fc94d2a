package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/clock"
	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/hashchain"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/pagination"
)

// chainAppendRetries bounds how often an append loser re-reads the chain
// head before the conflict surfaces as a storage error.
const chainAppendRetries = 3

// auditService owns event creation and digest computation for the
// hash-chained audit log. Callers supply only action and payload.
type auditService struct {
	db  *gorm.DB
	clk clock.Clock
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB, clk clock.Clock) AuditServicer {
	return &auditService{db: db, clk: clk}
}

// Append records one event in its own transaction, retrying on append races.
func (s *auditService) Append(action string, payload any) (*models.AuditEvent, error) {
	var event *models.AuditEvent
	err := withChainRetry(s.db, func(tx *gorm.DB) error {
		var txErr error
		event, txErr = s.AppendTx(tx, action, payload)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// AppendTx computes the next chain link and inserts it inside the caller's
// transaction. The read of the current head and the insert of the new event
// share that transaction; the unique index on sequence catches two appends
// that both read the same head, and the loser gets ErrChainConflict.
func (s *auditService) AppendTx(tx *gorm.DB, action string, payload any) (*models.AuditEvent, error) {
	canonical, err := hashchain.Canonicalize(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEncoding, err)
	}

	prevDigest := hashchain.GenesisDigest
	var sequence uint64 = 1

	var head models.AuditEvent
	if err := tx.Order("sequence DESC").First(&head).Error; err == nil {
		prevDigest = head.Digest
		sequence = head.Sequence + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	timestamp := s.clk.Now().UTC().Format(time.RFC3339Nano)
	event := &models.AuditEvent{
		Sequence:      sequence,
		Timestamp:     timestamp,
		Action:        action,
		Payload:       string(canonical),
		SchemaVersion: models.AuditSchemaVersion,
		PrevDigest:    prevDigest,
		Digest:        hashchain.Digest(prevDigest, timestamp, action, canonical),
	}

	if err := tx.Create(event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Wrap(apperrors.ErrChainConflict, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return event, nil
}

// Verify replays the chain in ascending sequence order, recomputing every
// digest. The first event whose stored prev_digest or digest disagrees with
// the recomputation is reported; a deleted event shows up at its successor,
// the earliest sequence the removal can be observed at.
func (s *auditService) Verify() (*models.VerificationResult, error) {
	result := &models.VerificationResult{OK: true}
	runningPrev := hashchain.GenesisDigest

	var events []models.AuditEvent
	err := s.db.Order("sequence ASC").FindInBatches(&events, 500, func(tx *gorm.DB, batch int) error {
		for i := range events {
			ev := &events[i]
			result.Checked++
			expected := hashchain.Digest(ev.PrevDigest, ev.Timestamp, ev.Action, []byte(ev.Payload))
			if ev.PrevDigest != runningPrev || ev.Digest != expected {
				seq := ev.Sequence
				result.OK = false
				result.BrokenAtSequence = &seq
				return errChainBroken
			}
			runningPrev = ev.Digest
		}
		return nil
	}).Error
	if err != nil && !errors.Is(err, errChainBroken) {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return result, nil
}

// errChainBroken stops the batch scan early; it never leaves Verify.
var errChainBroken = errors.New("chain broken")

// ListEvents returns audit events newest-first, optionally filtered by action.
func (s *auditService) ListEvents(page pagination.PageRequest, action string) (*pagination.PageResponse[models.AuditEvent], error) {
	page.Defaults()

	base := s.db.Model(&models.AuditEvent{})
	if action != "" {
		base = base.Where("action = ?", action)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var events []models.AuditEvent
	if err := base.Scopes(pagination.Paginate(page)).
		Order("sequence DESC").
		Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	result := pagination.NewPageResponse(events, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// withChainRetry runs fn in a database transaction, re-running the whole
// unit of work when the audit append inside it loses a chain race. The
// retried closure re-reads the chain head, so the loser links onto the
// winner's event instead of forking the chain. Exhausted retries surface
// as a storage error per the propagation policy.
func withChainRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 0; attempt < chainAppendRetries; attempt++ {
		lastErr = db.Transaction(fn)
		if lastErr == nil {
			return nil
		}
		var appErr *apperrors.AppError
		if errors.As(lastErr, &appErr) && appErr.Code == apperrors.ErrChainConflict.Code {
			continue
		}
		return lastErr
	}
	return apperrors.Wrap(apperrors.ErrStorage, lastErr)
}
