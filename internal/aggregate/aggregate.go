// Package aggregate drives extraction across every statement document in
// a source folder and merges the results into one sorted dataset.
package aggregate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finflow/statement-extractor/internal/metrics"
	"github.com/finflow/statement-extractor/internal/models"
	"github.com/finflow/statement-extractor/internal/parser"
)

// Sink receives the finished dataset exactly once, after sorting. A sink
// failure fails the persistence step only; the in-memory dataset stays
// valid.
type Sink interface {
	Persist(ds models.Dataset) error
}

// DefaultWorkers is the worker-pool size used when none is configured.
const DefaultWorkers = 4

// Runner aggregates per-document extraction results. Parallelism affects
// wall-clock time only: document results are merged by enumeration slot,
// so output content and ordering are independent of completion order.
type Runner struct {
	Extractor *parser.Extractor
	Log       *zap.Logger
	// Workers bounds document-level parallelism; values below 1 use
	// DefaultWorkers.
	Workers int
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// docResult carries one document's extraction outcome back to its
// enumeration slot.
type docResult struct {
	txns  models.Dataset
	diags []models.Diagnostic
	err   error
	done  bool
}

// Run extracts every PDF document in sourceFolder, concatenates the
// per-document records, stable-sorts them by booking date (missing dates
// last) and, when sink is non-nil, persists the dataset.
//
// A document that cannot be read is skipped; the batch continues and the
// failure is reported in the summary. Run returns an error only when the
// folder cannot be enumerated, every document failed, or persistence
// failed — in the persistence case the returned dataset and summary are
// still valid.
func (r *Runner) Run(ctx context.Context, sourceFolder string, filter *models.TransactionType, sink Sink) (models.Dataset, *models.RunSummary, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	summary := &models.RunSummary{
		RunID:        uuid.NewString(),
		SourceFolder: sourceFolder,
	}

	docs, err := enumerateDocuments(sourceFolder)
	if err != nil {
		return nil, summary, err
	}
	summary.Documents = len(docs)

	log.Info("starting run",
		zap.String("runId", summary.RunID),
		zap.String("sourceFolder", sourceFolder),
		zap.Int("documents", len(docs)))

	results := r.extractAll(ctx, docs, filter)

	var dataset models.Dataset
	for i, res := range results {
		if res.err != nil {
			summary.DocumentsFailed = append(summary.DocumentsFailed, models.DocumentFailure{
				Document: filepath.Base(docs[i]),
				Err:      res.err.Error(),
			})
			log.Error("document failed", zap.String("document", filepath.Base(docs[i])), zap.Error(res.err))
			continue
		}
		dataset = append(dataset, res.txns...)
		summary.PagesSkipped = append(summary.PagesSkipped, res.diags...)
	}

	dataset.SortByBookingDate()

	summary.Records = len(dataset)
	summary.Duration = time.Since(start)

	if len(docs) > 0 && len(summary.DocumentsFailed) == len(docs) {
		r.Metrics.ObserveRun(summary)
		return nil, summary, fmt.Errorf("all %d documents in %s failed to read", len(docs), sourceFolder)
	}

	if sink != nil {
		if err := sink.Persist(dataset); err != nil {
			summary.Duration = time.Since(start)
			r.Metrics.ObserveRun(summary)
			return dataset, summary, err
		}
	}

	log.Info("run finished",
		zap.String("runId", summary.RunID),
		zap.Int("records", summary.Records),
		zap.Int("pagesSkipped", len(summary.PagesSkipped)),
		zap.Int("documentsFailed", len(summary.DocumentsFailed)),
		zap.Duration("duration", summary.Duration))

	r.Metrics.ObserveRun(summary)
	return dataset, summary, nil
}

// extractAll runs the document extractor over docs with a bounded worker
// pool. Results land in the slot matching each document's enumeration
// index. Cancellation is cooperative at document granularity: in-flight
// documents finish, queued ones are not started.
func (r *Runner) extractAll(ctx context.Context, docs []string, filter *models.TransactionType) []docResult {
	workers := r.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	results := make([]docResult, len(docs))
	if len(docs) == 0 {
		return results
	}

	type job struct {
		idx  int
		path string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				txns, diags, err := r.Extractor.ExtractDocument(j.path, filter)
				results[j.idx] = docResult{txns: txns, diags: diags, err: err, done: true}
			}
		}()
	}

feed:
	for i, path := range docs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			// Stop handing out documents; in-flight ones finish.
			break feed
		case jobs <- job{idx: i, path: path}:
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		for i := range results {
			if !results[i].done {
				results[i].err = ctx.Err()
			}
		}
	}
	return results
}

// enumerateDocuments lists the PDF documents in folder. Enumeration order
// follows the filesystem and is not guaranteed.
func enumerateDocuments(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("cannot enumerate source folder %s: %w", folder, err)
	}

	var docs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			docs = append(docs, filepath.Join(folder, e.Name()))
		}
	}
	return docs, nil
}
