package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/pagination"
)

// memberService handles member lifecycle operations.
type memberService struct {
	db     *gorm.DB
	audit  AuditServicer
	policy LedgerPolicy
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB, audit AuditServicer, policy LedgerPolicy) MemberServicer {
	return &memberService{db: db, audit: audit, policy: policy}
}

// CreateMember registers a member and seeds their admission-year ledger rows
// in the same transaction, so a member can never exist without a grid.
func (s *memberService) CreateMember(name, phone, email string, admissionDate time.Time, plan models.PlanType, monthlyFee *int64, actorID *string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "name is required")
	}
	if admissionDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "admission_date is required")
	}
	if plan == "" {
		plan = models.PlanTypeMonthly
	}
	if plan != models.PlanTypeMonthly && plan != models.PlanTypeYearly {
		return nil, apperrors.ErrInvalidPlanType
	}
	if monthlyFee != nil && *monthlyFee < 0 {
		return nil, apperrors.ErrNegativeAmount
	}

	member := &models.Member{
		Name:          name,
		Phone:         strings.TrimSpace(phone),
		Email:         strings.TrimSpace(email),
		AdmissionDate: admissionDate,
		PlanType:      plan,
		MonthlyFee:    monthlyFee,
		IsActive:      true,
	}

	err := withChainRetry(s.db, func(tx *gorm.DB) error {
		member.ID = ""
		if err := tx.Create(member).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		if err := ensureYearRowsTx(tx, member, admissionDate.Year(), s.policy.AdmissionMonthPrepaid); err != nil {
			return err
		}
		_, err := s.audit.AppendTx(tx, models.ActionMemberCreate, models.MemberCreatePayload{
			SchemaVersion: models.AuditSchemaVersion,
			MemberID:      member.ID,
			Name:          member.Name,
			Phone:         member.Phone,
			AdmissionDate: admissionDate.Format("2006-01-02"),
			PlanType:      string(plan),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// GetMember retrieves a member by ID.
func (s *memberService) GetMember(id string) (*models.Member, error) {
	return getMemberTx(s.db, id)
}

// ListMembers retrieves a paginated list of members, oldest first.
func (s *memberService) ListMembers(page pagination.PageRequest) (*pagination.PageResponse[models.Member], error) {
	page.Defaults()

	base := s.db.Model(&models.Member{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	var members []models.Member
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at").
		Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	result := pagination.NewPageResponse(members, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdatePlan switches a member between monthly and yearly billing.
func (s *memberService) UpdatePlan(id string, plan models.PlanType, actorID *string) (*models.Member, error) {
	if plan != models.PlanTypeMonthly && plan != models.PlanTypeYearly {
		return nil, apperrors.ErrInvalidPlanType
	}
	member, err := getMemberTx(s.db, id)
	if err != nil {
		return nil, err
	}

	err = withChainRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(member).Update("plan_type", plan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		_, err := s.audit.AppendTx(tx, models.ActionMemberPlanUpdate, models.MemberPlanUpdatePayload{
			SchemaVersion: models.AuditSchemaVersion,
			MemberID:      member.ID,
			PlanType:      string(plan),
			UserID:        actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	member.PlanType = plan
	return member, nil
}

// DeleteMember removes a member together with their ledger rows. The audit
// event outlives the member; the chain is append-only.
func (s *memberService) DeleteMember(id string, actorID *string) error {
	member, err := getMemberTx(s.db, id)
	if err != nil {
		return err
	}

	return withChainRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", member.ID).Delete(&models.Payment{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		if err := tx.Delete(member).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		_, err := s.audit.AppendTx(tx, models.ActionMemberDelete, models.MemberDeletePayload{
			SchemaVersion: models.AuditSchemaVersion,
			MemberID:      member.ID,
			UserID:        actorID,
		})
		return err
	})
}
