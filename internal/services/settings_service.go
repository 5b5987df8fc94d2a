package services

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/AHADKHATTAK1/zaidan-gym/internal/errors"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/logger"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/models"
)

// settingsService stores globally mutable settings (monthly price, currency,
// gym name) in the settings table and audits every change.
type settingsService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB, audit AuditServicer) SettingsServicer {
	return &settingsService{db: db, audit: audit}
}

// Get returns a setting's value, or the empty string when unset.
func (s *settingsService) Get(key string) (string, error) {
	var setting models.Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return setting.Value, nil
}

// Set upserts a setting and appends a setting.update audit event atomically.
func (s *settingsService) Set(key, value string, actorID *string) error {
	if key == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, "setting key is required")
	}
	return withChainRetry(s.db, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&models.Setting{Key: key, Value: value}).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrStorage, err)
		}
		_, err = s.audit.AppendTx(tx, models.ActionSettingUpdate, models.SettingUpdatePayload{
			SchemaVersion: models.AuditSchemaVersion,
			Key:           key,
			Value:         value,
			UserID:        actorID,
		})
		return err
	})
}

// All returns every stored setting as a map.
func (s *settingsService) All() (map[string]string, error) {
	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// MonthlyPrice returns the global monthly price in minor currency units,
// zero when unset or unparseable.
func (s *settingsService) MonthlyPrice() int64 {
	raw, err := s.Get(models.SettingMonthlyPrice)
	if err != nil || raw == "" {
		return 0
	}
	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Get().Warnw("invalid monthly_price setting", "value", raw)
		return 0
	}
	return price
}

// CurrencyCode returns the display currency, defaulting to USD.
func (s *settingsService) CurrencyCode() string {
	code, err := s.Get(models.SettingCurrencyCode)
	if err != nil || code == "" {
		return "USD"
	}
	return code
}

// GymName returns the configured gym name.
func (s *settingsService) GymName() string {
	name, err := s.Get(models.SettingGymName)
	if err != nil || name == "" {
		return "Zaidan Gym"
	}
	return name
}
