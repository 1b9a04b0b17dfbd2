package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/finflow/statement-extractor/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"-48,40", "-48.40"},
		{"1.234,56", "1234.56"},
		{"-1.234,56", "-1234.56"},
		{"0,99", "0.99"},
		{"12.345.678,00", "12345678.00"},
		{"5,00", "5.00"},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error: %v", tt.raw, err)
			continue
		}
		if got.StringFixed(2) != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got.StringFixed(2), tt.want)
		}
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "12,3x", "--1,00"} {
		_, err := ParseAmount(raw)
		if err == nil {
			t.Errorf("ParseAmount(%q): expected error", raw)
			continue
		}
		var nerr *models.NormalizationError
		if !errors.As(err, &nerr) {
			t.Errorf("ParseAmount(%q): error is %T, want *models.NormalizationError", raw, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("04.12.2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.December, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate(\"04.12.2024\") = %v, want %v", got, want)
	}
}

func TestParseDateInvalid(t *testing.T) {
	tests := []string{
		"31.02.2024", // impossible calendar date
		"04/12/2024", // wrong separator
		"04.12.24",   // two-digit year
		"2024-12-04", // ISO, not statement format
		"",
	}

	for _, raw := range tests {
		_, err := ParseDate(raw)
		if err == nil {
			t.Errorf("ParseDate(%q): expected error", raw)
			continue
		}
		var nerr *models.NormalizationError
		if !errors.As(err, &nerr) {
			t.Errorf("ParseDate(%q): error is %T, want *models.NormalizationError", raw, err)
		}
	}
}
