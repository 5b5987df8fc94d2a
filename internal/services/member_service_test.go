package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/clock"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/pagination"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/testutil"
)

func newMemberServiceForTest(db *gorm.DB, clk clock.Clock) (MemberServicer, AuditServicer) {
	policy := LedgerPolicy{AdmissionMonthPrepaid: true}
	audit := NewAuditService(db, clk)
	return NewMemberService(db, audit, policy), audit
}

func TestCreateMember(t *testing.T) {
	admission := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("seeds_ledger_and_audit_atomically", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, audit := newMemberServiceForTest(db, aprils2024())

		member, err := svc.CreateMember("Ali Raza", "+923001234567", "", admission, models.PlanTypeMonthly, nil, nil)
		testutil.AssertNoError(t, err)
		if member.ID == "" {
			t.Fatal("expected member ID to be assigned")
		}
		if !member.IsActive {
			t.Error("new members should start active")
		}

		var rows int64
		db.Model(&models.Payment{}).Where("member_id = ? AND year = ?", member.ID, 2024).Count(&rows)
		if rows != 12 {
			t.Errorf("expected admission-year grid seeded, got %d rows", rows)
		}

		var ev models.AuditEvent
		if err := db.Where("action = ?", models.ActionMemberCreate).First(&ev).Error; err != nil {
			t.Fatalf("expected member.create audit event: %v", err)
		}

		result, err := audit.Verify()
		testutil.AssertNoError(t, err)
		if !result.OK {
			t.Error("chain should verify clean after member creation")
		}
	})

	t.Run("defaults_to_monthly_plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newMemberServiceForTest(db, aprils2024())

		member, err := svc.CreateMember("Sana", "", "", admission, "", nil, nil)
		testutil.AssertNoError(t, err)
		if member.PlanType != models.PlanTypeMonthly {
			t.Errorf("expected monthly default, got %s", member.PlanType)
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newMemberServiceForTest(db, aprils2024())

		_, err := svc.CreateMember("   ", "", "", admission, models.PlanTypeMonthly, nil, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.CreateMember("Ali", "", "", time.Time{}, models.PlanTypeMonthly, nil, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.CreateMember("Ali", "", "", admission, "weekly", nil, nil)
		testutil.AssertAppError(t, err, "INVALID_PLAN_TYPE")

		fee := int64(-100)
		_, err = svc.CreateMember("Ali", "", "", admission, models.PlanTypeMonthly, &fee, nil)
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")

		var count int64
		db.Model(&models.Member{}).Count(&count)
		if count != 0 {
			t.Errorf("rejected creations persisted %d members", count)
		}
	})
}

func TestListMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, _ := newMemberServiceForTest(db, aprils2024())
	admission := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		testutil.CreateTestMember(t, db, admission)
	}

	page, err := svc.ListMembers(pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)
	if len(page.Data) != 2 {
		t.Errorf("expected 2 members on page 1, got %d", len(page.Data))
	}
	if page.TotalItems != 3 {
		t.Errorf("expected 3 total, got %d", page.TotalItems)
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}
}

func TestUpdatePlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, _ := newMemberServiceForTest(db, aprils2024())
	member := testutil.CreateTestMember(t, db, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	updated, err := svc.UpdatePlan(member.ID, models.PlanTypeYearly, nil)
	testutil.AssertNoError(t, err)
	if updated.PlanType != models.PlanTypeYearly {
		t.Errorf("expected yearly, got %s", updated.PlanType)
	}

	var ev models.AuditEvent
	if err := db.Where("action = ?", models.ActionMemberPlanUpdate).First(&ev).Error; err != nil {
		t.Fatalf("expected member.plan.update audit event: %v", err)
	}

	_, err = svc.UpdatePlan(member.ID, "weekly", nil)
	testutil.AssertAppError(t, err, "INVALID_PLAN_TYPE")
}

func TestDeleteMember(t *testing.T) {
	t.Run("removes_member_and_ledger_but_keeps_chain", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, audit := newMemberServiceForTest(db, aprils2024())

		member, err := svc.CreateMember("Ali Raza", "", "", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), models.PlanTypeMonthly, nil, nil)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteMember(member.ID, nil))

		_, err = svc.GetMember(member.ID)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")

		var rows int64
		db.Model(&models.Payment{}).Where("member_id = ?", member.ID).Count(&rows)
		if rows != 0 {
			t.Errorf("expected ledger rows removed, %d remain", rows)
		}

		// The create and delete events both survive the member.
		var events int64
		db.Model(&models.AuditEvent{}).Count(&events)
		if events != 2 {
			t.Errorf("expected 2 audit events, got %d", events)
		}
		result, err := audit.Verify()
		testutil.AssertNoError(t, err)
		if !result.OK {
			t.Error("chain should verify clean after deletion")
		}
	})

	t.Run("unknown_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newMemberServiceForTest(db, aprils2024())

		testutil.AssertAppError(t, svc.DeleteMember("missing", nil), "MEMBER_NOT_FOUND")
	})
}
