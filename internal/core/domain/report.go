package domain

import "time"

// RiskRecord is one risk parsed from a model answer.
type RiskRecord struct {
	Name               string
	Description        string
	Probability        string
	ContextExplanation string
	Mitigation         string
}

// Report is a generated risk report artifact.
type Report struct {
	// ID is the unique identifier for the report.
	ID string

	// ProjectID links the report to its Project.
	ProjectID string

	// Name includes the human-readable generation date.
	Name string

	// Data is the rendered PDF. Empty in listings.
	Data []byte

	// Size is the payload length in bytes.
	Size int64

	// RiskCount is how many risks were rendered.
	RiskCount int

	// CreatedAt is when the report was generated.
	CreatedAt time.Time
}

// FileKind selects which table a stored file is read from.
type FileKind string

// Stored file kinds.
const (
	FileKindDocument FileKind = "document"
	FileKindReport   FileKind = "report"
)

// IsValid returns true if the kind is recognised.
func (k FileKind) IsValid() bool {
	return k == FileKindDocument || k == FileKindReport
}

// StoredFile is a named byte payload returned by file lookups.
type StoredFile struct {
	Name string
	Data []byte
}
