package domain

import "time"

// DefaultCurrency seeds the settings row on first read.
const DefaultCurrency = "INR"

// Settings is the single-row store configuration.
type Settings struct {
	ID                int64
	CompanyName       string
	Address           string
	Currency          string
	EmailUpdates      bool
	SMSAlerts         bool
	LowStockReminders bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Defaults returns the settings seeded when no row exists yet.
func Defaults() *Settings {
	return &Settings{
		Currency:          DefaultCurrency,
		EmailUpdates:      true,
		SMSAlerts:         false,
		LowStockReminders: true,
	}
}
