package loader

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finflow/statement-extractor/internal/models"
	"github.com/finflow/statement-extractor/internal/writer"
)

func writtenDataset(t *testing.T) (string, models.Dataset) {
	t.Helper()
	d1 := time.Date(2024, time.December, 4, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	ds := models.Dataset{
		{
			BookingDate:   &d1,
			ValueDate:     &d1,
			TransactionID: "7L2C1U7N2KRV",
			Code:          "5LYN/35742",
			Description:   "REWE SAGT DANKE 44123456",
			Amount:        decimal.NullDecimal{Decimal: decimal.RequireFromString("-48.40"), Valid: true},
		},
		{
			BookingDate:   &d2,
			ValueDate:     &d2,
			TransactionID: "9K3D2V8M1QRS",
			Code:          "7ABC/12345",
			Description:   "WIENER FEINBAECKEREI HEBERER",
			Amount:        decimal.NullDecimal{Decimal: decimal.RequireFromString("-12.15"), Valid: true},
		},
		{
			TransactionID: "1A2B3C4D5E6F",
			Code:          "3DEF/67890",
			Description:   "DWS Alternatives GmbH",
		},
	}

	path := filepath.Join(t.TempDir(), "transactions.csv")
	w := &writer.CSVWriter{Path: path}
	if err := w.Persist(ds); err != nil {
		t.Fatalf("cannot write fixture: %v", err)
	}
	return path, ds
}

func TestLoadRoundTrip(t *testing.T) {
	path, want := writtenDataset(t)

	got, err := (&Loader{Path: path}).Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("records: got %d, want %d", len(got), len(want))
	}

	if got[0].BookingDate == nil || !got[0].BookingDate.Equal(*want[0].BookingDate) {
		t.Errorf("booking date: got %v, want %v", got[0].BookingDate, want[0].BookingDate)
	}
	if !got[0].Amount.Valid || !got[0].Amount.Decimal.Equal(want[0].Amount.Decimal) {
		t.Errorf("amount: got %+v, want %s", got[0].Amount, want[0].Amount.Decimal)
	}
	if got[2].BookingDate != nil {
		t.Error("empty date cell should load as missing, not zero time")
	}
	if got[2].Amount.Valid {
		t.Error("empty amount cell should load as missing")
	}
}

func TestLoadKeywordFilter(t *testing.T) {
	path, _ := writtenDataset(t)
	l := &Loader{Path: path}

	tests := []struct {
		name     string
		keywords []string
		want     int
	}{
		{"single keyword", []string{"REWE"}, 1},
		{"or across keywords", []string{"REWE", "WIENER FEINBAECKEREI"}, 2},
		{"substring match", []string{"Alternatives"}, 1},
		{"case sensitive", []string{"rewe"}, 0},
		{"no match", []string{"EDEKA"}, 0},
		{"empty list matches all", nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Load(tt.keywords)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("records: got %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestReadEmptyInput(t *testing.T) {
	ds, err := Read(bytes.NewReader(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds) != 0 {
		t.Errorf("records from empty input: got %d, want 0", len(ds))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := (&Loader{Path: filepath.Join(t.TempDir(), "nope.csv")}).Load(nil)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
