package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a stored amount string to a decimal value.
// Empty cells and unparseable values yield zero; stores created by hand
// sometimes carry currency symbols or thousands separators, which are
// stripped before parsing.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.NewReplacer("$", "", "'", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders a decimal amount the way stores persist it,
// with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
