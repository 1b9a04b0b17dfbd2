package models

import "fmt"

// ConfigurationError means a required environment variable or location is
// missing. It is fatal: nothing is extracted.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Detail
}

// NormalizationError means one raw field could not be converted to its
// typed value. Callers recover by leaving the field empty; processing of
// the record continues.
type NormalizationError struct {
	Field string
	Raw   string
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %s %q: %v", e.Field, e.Raw, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// DocumentReadError means a document could not be opened or parsed at all.
// The batch continues with the remaining documents; the failure is carried
// into the run summary.
type DocumentReadError struct {
	Document string
	Err      error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("cannot read document %s: %v", e.Document, e.Err)
}

func (e *DocumentReadError) Unwrap() error { return e.Err }

// PersistenceError means the output sink could not be written. It fails the
// persistence step only; the in-memory dataset stays valid.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cannot persist dataset to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
