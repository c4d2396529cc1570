package models

import "time"

const DefaultBusinessName = "Gevers Painting Account"

type Settings struct {
	BusinessName string `json:"businessName"`
	Currency     string `json:"currency"`
	FiscalYear   int    `json:"fiscalYear"`
}

// DefaultSettings returns the settings used when nothing has been saved yet.
func DefaultSettings(businessName, currency string, now time.Time) Settings {
	if businessName == "" {
		businessName = DefaultBusinessName
	}
	if currency == "" {
		currency = "USD"
	}
	return Settings{
		BusinessName: businessName,
		Currency:     currency,
		FiscalYear:   now.Year(),
	}
}
