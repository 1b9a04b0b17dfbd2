// Package normalize converts raw captured statement fields into typed
// values. Both functions are pure and report failure through an error; a
// failed field never aborts the record it belongs to.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finflow/statement-extractor/internal/models"
)

// DateLayout is the statement date format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// ParseAmount converts a German-formatted amount like "-1.234,56" to a
// decimal. "." is the thousands separator and "," the decimal separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &models.NormalizationError{Field: "amount", Raw: raw, Err: err}
	}
	return d, nil
}

// ParseDate converts a DD.MM.YYYY string to a date. The format is strict:
// wrong lengths and impossible calendar dates both fail.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, &models.NormalizationError{Field: "date", Raw: raw, Err: err}
	}
	return t, nil
}
