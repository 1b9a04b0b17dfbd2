// Package loader is the downstream consumer of a persisted dataset: it
// reads the CSV back, re-parses the typed fields and optionally filters
// rows by description keywords.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finflow/statement-extractor/internal/models"
	"github.com/finflow/statement-extractor/internal/writer"
)

// Loader reads a persisted transaction CSV.
type Loader struct {
	Path string
}

// Load reads the dataset from disk. When keywords are given, only rows
// whose description contains at least one of them are returned; matching
// is case-sensitive substring search.
func (l *Loader) Load(keywords []string) (models.Dataset, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dataset %s: %w", l.Path, err)
	}
	defer f.Close()

	return Read(f, keywords)
}

// Read parses CSV rows from r into a dataset, applying the keyword filter.
func Read(r io.Reader, keywords []string) (models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(writer.Header)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var ds models.Dataset
	for _, row := range rows[1:] { // skip header
		txn := models.Transaction{
			TransactionID: row[2],
			Code:          row[3],
			Description:   row[4],
		}
		if t, err := time.Parse(writer.DateLayout, row[0]); err == nil {
			txn.BookingDate = &t
		}
		if t, err := time.Parse(writer.DateLayout, row[1]); err == nil {
			txn.ValueDate = &t
		}
		if row[5] != "" {
			if d, err := decimal.NewFromString(row[5]); err == nil {
				txn.Amount = decimal.NullDecimal{Decimal: d, Valid: true}
			}
		}

		if matchesAny(txn.Description, keywords) {
			ds = append(ds, txn)
		}
	}
	return ds, nil
}

// matchesAny reports whether desc contains any keyword. An empty keyword
// list matches everything.
func matchesAny(desc string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
