package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finflow/statement-extractor/internal/models"
)

func TestSaveRun(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("cannot open store: %v", err)
	}
	defer s.Close()

	d := time.Date(2024, time.December, 4, 0, 0, 0, 0, time.UTC)
	summary := &models.RunSummary{
		RunID:        uuid.NewString(),
		SourceFolder: "/data/financial_reports",
		Documents:    1,
		Records:      2,
		Duration:     1500 * time.Millisecond,
	}
	ds := models.Dataset{
		{
			BookingDate:   &d,
			ValueDate:     &d,
			TransactionID: "7L2C1U7N2KRV",
			Code:          "5LYN/35742",
			Description:   "D.T.NET Service OHG",
			Amount:        decimal.NullDecimal{Decimal: decimal.RequireFromString("-48.40"), Valid: true},
			Type:          models.DirectDebit,
		},
		{
			TransactionID: "9K3D2V8M1QRS",
			Code:          "7ABC/12345",
			Description:   "Miete Dezember",
			Type:          models.Transfer,
		},
	}

	if err := s.SaveRun(summary, ds); err != nil {
		t.Fatalf("cannot save run: %v", err)
	}

	n, err := s.CountTransactions(summary.RunID)
	if err != nil {
		t.Fatalf("cannot count transactions: %v", err)
	}
	if n != 2 {
		t.Errorf("stored transactions: got %d, want 2", n)
	}
}

func TestSaveRunTwice(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("cannot open store: %v", err)
	}
	defer s.Close()

	for i := 0; i < 2; i++ {
		summary := &models.RunSummary{RunID: uuid.NewString()}
		if err := s.SaveRun(summary, nil); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}
