package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies a supported statement transaction type.
// The value is the native-language label used on the statements themselves.
type TransactionType string

const (
	DirectDebit     TransactionType = "Lastschrift"
	CardTransaction TransactionType = "Kartenverfügung"
	Transfer        TransactionType = "Übertrag"
)

// Types lists all supported transaction types in declaration order.
func Types() []TransactionType {
	return []TransactionType{DirectDebit, CardTransaction, Transfer}
}

// ParseTransactionType maps a CLI/API parameter to a TransactionType.
// Both English flag names and the native statement labels are accepted.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct-debit", "directdebit", "lastschrift":
		return DirectDebit, nil
	case "card", "card-transaction", "kartenverfügung", "kartenverfuegung":
		return CardTransaction, nil
	case "transfer", "übertrag", "uebertrag":
		return Transfer, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q. Supported: direct-debit, card, transfer", s)
	}
}

// Transaction is one extracted statement transaction.
// BookingDate, ValueDate and Amount are optional: when the raw field fails
// normalization the record is kept and the field stays empty.
type Transaction struct {
	BookingDate   *time.Time          `json:"bookingDate"`
	ValueDate     *time.Time          `json:"valueDate"`
	TransactionID string              `json:"transactionId"`
	Code          string              `json:"code"`
	Description   string              `json:"description"`
	Amount        decimal.NullDecimal `json:"amount"`
	Type          TransactionType     `json:"type"`
}

// Dataset is an ordered sequence of transactions. After SortByBookingDate
// it is ascending by booking date with arrival order preserved for ties.
type Dataset []Transaction

// SortByBookingDate stable-sorts the dataset ascending by booking date.
// Records without a booking date sort after all dated records.
func (d Dataset) SortByBookingDate() {
	sort.SliceStable(d, func(i, j int) bool {
		a, b := d[i].BookingDate, d[j].BookingDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}

// Diagnostic records a non-fatal per-page condition, such as a page that
// yielded no extractable text.
type Diagnostic struct {
	Document string `json:"document"`
	Page     int    `json:"page"`
	Message  string `json:"message"`
}

// DocumentFailure records a document that could not be read at all.
type DocumentFailure struct {
	Document string `json:"document"`
	Err      string `json:"error"`
}

// RunSummary reports the outcome of one aggregation run. Partial success
// is expected: failed documents and skipped pages are listed, not hidden.
type RunSummary struct {
	RunID           string            `json:"runId"`
	SourceFolder    string            `json:"sourceFolder,omitempty"`
	Documents       int               `json:"documents"`
	DocumentsFailed []DocumentFailure `json:"documentsFailed,omitempty"`
	PagesSkipped    []Diagnostic      `json:"pagesSkipped,omitempty"`
	Records         int               `json:"records"`
	Duration        time.Duration     `json:"duration"`
	OutputPath      string            `json:"outputPath,omitempty"`
}
