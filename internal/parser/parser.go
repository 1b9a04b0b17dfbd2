// Package parser turns raw statement page text into typed transaction
// records using the pattern registry.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finflow/statement-extractor/internal/models"
	"github.com/finflow/statement-extractor/internal/normalize"
	"github.com/finflow/statement-extractor/internal/patterns"
)

// TextSource provides per-page text for one statement document. A page
// with no extractable text is reported as an empty string, not an error;
// errors are reserved for documents that cannot be read at all.
type TextSource interface {
	ExtractPages(path string) ([]string, error)
}

// Extractor applies the pattern registry to statement documents.
type Extractor struct {
	source TextSource
	log    *zap.Logger
}

// New returns an Extractor reading page text from source. A nil logger
// disables logging; diagnostics are still returned as values either way.
func New(source TextSource, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{source: source, log: log}
}

// ExtractPage extracts all transactions from one page of text.
//
// If filter is non-nil only that type's patterns are applied, otherwise
// the whole registry is. Every pattern is matched globally against the
// page: records come out in registry order, then match order within each
// pattern. An empty page yields zero records and a diagnostic.
func (e *Extractor) ExtractPage(docName string, pageNum int, text string, filter *models.TransactionType) ([]models.Transaction, *models.Diagnostic) {
	if strings.TrimSpace(text) == "" {
		diag := &models.Diagnostic{
			Document: docName,
			Page:     pageNum,
			Message:  "page has no extractable text",
		}
		e.log.Warn("page has no extractable text",
			zap.String("document", docName),
			zap.Int("page", pageNum))
		return nil, diag
	}

	var pats []patterns.Pattern
	if filter != nil {
		pats = patterns.For(*filter)
	} else {
		pats = patterns.All()
	}

	var txns []models.Transaction
	for _, p := range pats {
		for _, m := range p.FindAll(text) {
			txns = append(txns, e.buildRecord(p.Type, m))
		}
	}
	return txns, nil
}

// buildRecord assembles a transaction from the six raw capture groups.
// A date or amount that fails normalization leaves its field empty; the
// record itself is always kept.
func (e *Extractor) buildRecord(t models.TransactionType, m []string) models.Transaction {
	txn := models.Transaction{
		TransactionID: m[3],
		Code:          m[4],
		Description:   strings.TrimSpace(m[5]),
		Type:          t,
	}

	if d, err := normalize.ParseDate(m[1]); err == nil {
		txn.BookingDate = &d
	} else {
		e.log.Debug("booking date not normalized", zap.Error(err))
	}
	if d, err := normalize.ParseDate(m[2]); err == nil {
		txn.ValueDate = &d
	} else {
		e.log.Debug("value date not normalized", zap.Error(err))
	}
	if a, err := normalize.ParseAmount(m[6]); err == nil {
		txn.Amount = decimal.NullDecimal{Decimal: a, Valid: true}
	} else {
		e.log.Debug("amount not normalized", zap.Error(err))
	}

	return txn
}

// ExtractDocument runs the page extractor over every page of one document
// in page order. Records are concatenated as-is: a transaction split
// across a page boundary is not reassembled.
func (e *Extractor) ExtractDocument(path string, filter *models.TransactionType) (models.Dataset, []models.Diagnostic, error) {
	docName := filepath.Base(path)

	pages, err := e.source.ExtractPages(path)
	if err != nil {
		return nil, nil, &models.DocumentReadError{Document: docName, Err: err}
	}

	var (
		txns  models.Dataset
		diags []models.Diagnostic
	)
	for i, text := range pages {
		pageTxns, diag := e.ExtractPage(docName, i+1, text, filter)
		txns = append(txns, pageTxns...)
		if diag != nil {
			diags = append(diags, *diag)
		}
	}

	e.log.Info("parsed document",
		zap.String("document", docName),
		zap.Int("transactions", len(txns)),
		zap.Int("pagesSkipped", len(diags)))

	return txns, diags, nil
}
