// Package writer persists a finished dataset as CSV. The file has exactly
// six columns in fixed order; dates are written as ISO 2006-01-02 and
// amounts as plain signed decimals, the canonical normalized forms.
package writer

import (
	"encoding/csv"
	"io"
	"os"
	"time"

	"github.com/finflow/statement-extractor/internal/models"
)

// DateLayout is the persisted date format. The loader parses it back.
const DateLayout = "2006-01-02"

// Header is the fixed column order of the persisted dataset.
var Header = []string{"Booking Date", "Value Date", "Transaction ID", "Code", "Description", "Amount"}

// CSVWriter writes datasets to a CSV file. It satisfies the aggregator's
// sink contract: the dataset is written exactly once, after sorting.
type CSVWriter struct {
	Path string
}

// Persist writes the dataset to the configured path.
func (w *CSVWriter) Persist(ds models.Dataset) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return &models.PersistenceError{Path: w.Path, Err: err}
	}

	if err := w.Write(f, ds); err != nil {
		f.Close()
		return &models.PersistenceError{Path: w.Path, Err: err}
	}
	// A deferred close would swallow the write-back error, e.g. on a
	// full disk.
	if err := f.Close(); err != nil {
		return &models.PersistenceError{Path: w.Path, Err: err}
	}
	return nil
}

// Write writes the dataset in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, ds models.Dataset) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, txn := range ds {
		row := []string{
			formatDate(txn.BookingDate),
			formatDate(txn.ValueDate),
			txn.TransactionID,
			txn.Code,
			txn.Description,
			formatAmount(txn),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func formatAmount(txn models.Transaction) string {
	if !txn.Amount.Valid {
		return ""
	}
	return txn.Amount.Decimal.StringFixed(2)
}
