package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// persisted data keeps amounts as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount parses a raw form value such as "120.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
