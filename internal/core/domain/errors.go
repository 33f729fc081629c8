package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates a source document could not be turned into text.
	// It is local to one document and never aborts a batch.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmbedding indicates the embedding service failed.
	// It aborts the current indexing batch.
	ErrEmbedding = errors.New("embedding failed")

	// ErrModelInvocation indicates the generative model call failed or timed out.
	// It is never retried automatically.
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrStorage indicates a persistence read or write failed.
	ErrStorage = errors.New("storage error")

	// ErrReportInProgress indicates another report generation is running.
	ErrReportInProgress = errors.New("report generation in progress")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// ExtractionError reports which document failed text extraction.
type ExtractionError struct {
	// DocumentName is the name of the offending document.
	DocumentName string

	// Err is the underlying parser error.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %q: %s", e.DocumentName, ErrExtraction)
	}
	return fmt.Sprintf("extract %q: %s: %v", e.DocumentName, ErrExtraction, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtraction}
	}
	return []error{ErrExtraction, e.Err}
}
