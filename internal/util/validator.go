package util

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bookkeeping/internal/models"

	"github.com/shopspring/decimal"
)

// MaxAmount caps any single amount or rate entered through a form.
var MaxAmount = decimal.NewFromInt(10_000_000)

// ValidateAmount parses a form amount. Zero is allowed, negatives and values
// at or above MaxAmount are not.
func ValidateAmount(raw string) (decimal.Decimal, error) {
	amount, err := models.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative, got %s", amount)
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, fmt.Errorf("amount too large, got %s", amount)
	}
	return amount, nil
}

// ValidateOptionalAmount treats an empty value as zero.
func ValidateOptionalAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return ValidateAmount(raw)
}

// ValidateDate requires a YYYY-MM-DD calendar date.
func ValidateDate(raw string) (models.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Date{}, fmt.Errorf("date is empty")
	}
	if len(raw) != len(models.DateLayout) {
		return models.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return models.ParseDate(raw)
}

// ValidateName checks a required display name against a rune limit.
func ValidateName(field, name string, limit int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s is empty", field)
	}
	if utf8.RuneCountInString(name) > limit {
		return fmt.Errorf("%s too long, max %d characters", field, limit)
	}
	return nil
}
