package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// StaticSettings is a fixed-value SettingsProvider for tests.
type StaticSettings struct {
	Price    int64
	Currency string
	Name     string
}

// MonthlyPrice returns the fixed monthly price.
func (s StaticSettings) MonthlyPrice() int64 { return s.Price }

// CurrencyCode returns the fixed currency code.
func (s StaticSettings) CurrencyCode() string {
	if s.Currency == "" {
		return "USD"
	}
	return s.Currency
}

// GymName returns the fixed gym name.
func (s StaticSettings) GymName() string {
	if s.Name == "" {
		return "Test Gym"
	}
	return s.Name
}

// CreateTestUser creates a staff user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     fmt.Sprintf("staff%d", nextID()),
		PasswordHash: string(hash),
		Role:         models.UserRoleStaff,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestMember creates a member admitted on the given date.
func CreateTestMember(t *testing.T, db *gorm.DB, admissionDate time.Time) *models.Member {
	t.Helper()

	member := &models.Member{
		Name:          fmt.Sprintf("Test Member %d", nextID()),
		Phone:         fmt.Sprintf("+1555%07d", nextID()),
		AdmissionDate: admissionDate,
		PlanType:      models.PlanTypeMonthly,
		IsActive:      true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestMemberWithFee creates a member with an individual monthly fee override.
func CreateTestMemberWithFee(t *testing.T, db *gorm.DB, admissionDate time.Time, monthlyFee int64) *models.Member {
	t.Helper()

	member := CreateTestMember(t, db, admissionDate)
	if err := db.Model(member).Update("monthly_fee", monthlyFee).Error; err != nil {
		t.Fatalf("failed to set member fee override: %v", err)
	}
	member.MonthlyFee = &monthlyFee
	return member
}

// CreateTestPayment creates one ledger row with the given status.
func CreateTestPayment(t *testing.T, db *gorm.DB, memberID string, year, month int, status models.FeeStatus) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		MemberID: memberID,
		Year:     year,
		Month:    month,
		Status:   status,
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test payment row: %v", err)
	}
	return payment
}
