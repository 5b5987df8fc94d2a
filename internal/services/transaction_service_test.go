package services

import (
	"testing"
	"time"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/testutil"
)

func TestRecord(t *testing.T) {
	admission := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("explicit_amount_wins", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMemberWithFee(t, db, admission, 6000)

		amount := int64(4500)
		month := 4
		txn, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, &month, &amount, "cash", nil)
		testutil.AssertNoError(t, err)
		if txn.Amount != 4500 {
			t.Errorf("expected explicit amount 4500, got %d", txn.Amount)
		}
	})

	t.Run("member_fee_override_beats_global_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMemberWithFee(t, db, admission, 6000)

		month := 4
		txn, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, &month, nil, "cash", nil)
		testutil.AssertNoError(t, err)
		if txn.Amount != 6000 {
			t.Errorf("expected fee override 6000, got %d", txn.Amount)
		}
	})

	t.Run("falls_back_to_global_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		month := 4
		txn, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, &month, nil, "cash", nil)
		testutil.AssertNoError(t, err)
		if txn.Amount != 5000 {
			t.Errorf("expected global price 5000, got %d", txn.Amount)
		}
	})

	t.Run("zero_when_nothing_configured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{}, true)
		member := testutil.CreateTestMember(t, db, admission)

		month := 4
		txn, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, &month, nil, "cash", nil)
		testutil.AssertNoError(t, err)
		if txn.Amount != 0 {
			t.Errorf("expected zero amount, got %d", txn.Amount)
		}
	})

	t.Run("rejects_negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		amount := int64(-1)
		month := 4
		_, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, &month, &amount, "cash", nil)
		testutil.AssertAppError(t, err, "NEGATIVE_AMOUNT")
	})

	t.Run("monthly_requires_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		_, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, nil, nil, "cash", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("yearly_forbids_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		month := 4
		_, err := recorder.Record(member.ID, models.PlanTypeYearly, 2024, &month, nil, "cash", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects_unknown_plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		_, err := recorder.Record(member.ID, "weekly", 2024, nil, nil, "cash", nil)
		testutil.AssertAppError(t, err, "INVALID_PLAN_TYPE")
	})

	t.Run("unknown_member_leaves_no_trace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)

		month := 4
		_, err := recorder.Record("missing", models.PlanTypeMonthly, 2024, &month, nil, "cash", nil)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")

		var txns, events int64
		db.Model(&models.PaymentTransaction{}).Count(&txns)
		db.Model(&models.AuditEvent{}).Count(&events)
		if txns != 0 || events != 0 {
			t.Errorf("failed record left state behind: txns=%d events=%d", txns, events)
		}
	})

	t.Run("materializes_ledger_rows_on_demand", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		month := 7
		_, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2025, &month, nil, "card", nil)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Payment{}).Where("member_id = ? AND year = ?", member.ID, 2025).Count(&count)
		if count != 12 {
			t.Errorf("expected the full 2025 year materialized, got %d rows", count)
		}
		var row models.Payment
		if err := db.Where("member_id = ? AND year = ? AND month = ?", member.ID, 2025, 7).First(&row).Error; err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if row.Status != models.FeeStatusPaid {
			t.Errorf("expected July 2025 Paid, got %s", row.Status)
		}
	})

	t.Run("records_actor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)
		user := testutil.CreateTestUser(t, db)

		month := 4
		txn, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, &month, nil, "cash", &user.ID)
		testutil.AssertNoError(t, err)
		if txn.UserID == nil || *txn.UserID != user.ID {
			t.Errorf("expected actor %s, got %v", user.ID, txn.UserID)
		}
	})
}

func TestHistory(t *testing.T) {
	admission := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	t.Run("empty_history_is_empty_slice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		history, err := recorder.History(member.ID, HistoryOldestFirst)
		testutil.AssertNoError(t, err)
		if history == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(history) != 0 {
			t.Errorf("expected no transactions, got %d", len(history))
		}
	})

	t.Run("ordering", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)
		member := testutil.CreateTestMember(t, db, admission)

		for _, month := range []int{1, 2, 3} {
			m := month
			_, err := recorder.Record(member.ID, models.PlanTypeMonthly, 2024, &m, nil, "cash", nil)
			testutil.AssertNoError(t, err)
			// keep created_at strictly increasing
			time.Sleep(5 * time.Millisecond)
		}

		oldest, err := recorder.History(member.ID, HistoryOldestFirst)
		testutil.AssertNoError(t, err)
		newest, err := recorder.History(member.ID, HistoryNewestFirst)
		testutil.AssertNoError(t, err)
		if len(oldest) != 3 || len(newest) != 3 {
			t.Fatalf("expected 3 transactions, got %d and %d", len(oldest), len(newest))
		}
		if oldest[0].Month == nil || *oldest[0].Month != 1 {
			t.Errorf("oldest-first should start with January, got %v", oldest[0].Month)
		}
		if newest[0].Month == nil || *newest[0].Month != 3 {
			t.Errorf("newest-first should start with March, got %v", newest[0].Month)
		}
	})

	t.Run("unknown_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		_, recorder, _ := newLedgerForTest(db, aprils2024(), testutil.StaticSettings{Price: 5000}, true)

		_, err := recorder.History("missing", HistoryNewestFirst)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})
}
