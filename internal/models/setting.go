package models

// Setting keys used by the application.
const (
	SettingMonthlyPrice = "monthly_price"
	SettingCurrencyCode = "currency_code"
	SettingGymName      = "gym_name"
	SettingCountryCode  = "whatsapp_default_country_code"
)

// Setting is a key/value row for globally mutable configuration such as the
// monthly fee price and display currency.
type Setting struct {
	Base
	Key   string `gorm:"uniqueIndex;not null;size:100" json:"key"`
	Value string `gorm:"size:1000" json:"value"`
}
