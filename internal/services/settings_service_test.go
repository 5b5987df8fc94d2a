package services

import (
	"testing"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/clock"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/testutil"
)

func TestSettings(t *testing.T) {
	t.Run("get_unset_key_is_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db, NewAuditService(db, clock.System{}))

		value, err := svc.Get("nonexistent")
		testutil.AssertNoError(t, err)
		if value != "" {
			t.Errorf("expected empty value, got %q", value)
		}
	})

	t.Run("set_upserts_and_audits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		audit := NewAuditService(db, clock.System{})
		svc := NewSettingsService(db, audit)

		testutil.AssertNoError(t, svc.Set(models.SettingMonthlyPrice, "5000", nil))
		testutil.AssertNoError(t, svc.Set(models.SettingMonthlyPrice, "5500", nil))

		value, err := svc.Get(models.SettingMonthlyPrice)
		testutil.AssertNoError(t, err)
		if value != "5500" {
			t.Errorf("expected 5500, got %q", value)
		}

		var rows int64
		db.Model(&models.Setting{}).Where("key = ?", models.SettingMonthlyPrice).Count(&rows)
		if rows != 1 {
			t.Errorf("upsert should keep one row, got %d", rows)
		}

		var events int64
		db.Model(&models.AuditEvent{}).Where("action = ?", models.ActionSettingUpdate).Count(&events)
		if events != 2 {
			t.Errorf("each write should be audited, got %d events", events)
		}

		result, err := audit.Verify()
		testutil.AssertNoError(t, err)
		if !result.OK {
			t.Error("chain should verify clean after setting writes")
		}
	})

	t.Run("rejects_empty_key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db, NewAuditService(db, clock.System{}))

		testutil.AssertAppError(t, svc.Set("", "x", nil), "VALIDATION_ERROR")
	})

	t.Run("all_returns_every_key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db, NewAuditService(db, clock.System{}))

		testutil.AssertNoError(t, svc.Set(models.SettingGymName, "Iron Works", nil))
		testutil.AssertNoError(t, svc.Set(models.SettingCurrencyCode, "PKR", nil))

		all, err := svc.All()
		testutil.AssertNoError(t, err)
		if len(all) != 2 {
			t.Fatalf("expected 2 settings, got %d", len(all))
		}
		if all[models.SettingGymName] != "Iron Works" {
			t.Errorf("unexpected gym name %q", all[models.SettingGymName])
		}
	})
}

func TestSettingsProviderDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSettingsService(db, NewAuditService(db, clock.System{}))

	if price := svc.MonthlyPrice(); price != 0 {
		t.Errorf("unset price should read 0, got %d", price)
	}
	if code := svc.CurrencyCode(); code != "USD" {
		t.Errorf("expected USD default, got %q", code)
	}
	if name := svc.GymName(); name != "Zaidan Gym" {
		t.Errorf("unexpected default name %q", name)
	}

	testutil.AssertNoError(t, svc.Set(models.SettingMonthlyPrice, "7500", nil))
	if price := svc.MonthlyPrice(); price != 7500 {
		t.Errorf("expected 7500, got %d", price)
	}

	// Garbage values degrade to zero instead of failing reads.
	testutil.AssertNoError(t, svc.Set(models.SettingMonthlyPrice, "five thousand", nil))
	if price := svc.MonthlyPrice(); price != 0 {
		t.Errorf("unparseable price should read 0, got %d", price)
	}
}
