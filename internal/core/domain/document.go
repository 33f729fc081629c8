package domain

import "time"

// Document is one uploaded source file.
// The core only reads documents; uploads happen through DocumentService.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// ProjectID links the document to its owning Project.
	ProjectID string

	// Name is the source filename. Not unique across projects.
	Name string

	// Data is the raw PDF payload. Empty in listings.
	Data []byte

	// Size is the payload length in bytes.
	Size int64

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}

// Page is the text of one PDF page.
type Page struct {
	// Number is the 1-based physical page number.
	Number int

	// Text is the extracted plain text.
	Text string
}

// PageText is extracted text tagged with where it came from.
// It is the input unit of chunk splitting.
type PageText struct {
	// SourceName is the Document name the text was extracted from.
	SourceName string

	// PageNumber is the 1-based page the text belongs to.
	PageNumber int

	// Text is the extracted plain text.
	Text string
}

// Chunk is a bounded span of text extracted from one Document.
// Chunks are never mutated once their ID is assigned.
type Chunk struct {
	// ID is "{SourceName}:{PageNumber}:{SequenceIndex}". Empty until assigned.
	ID string

	// Text is the chunk content.
	Text string

	// SourceName back-references Document.Name.
	SourceName string

	// PageNumber defaults to 1 when page boundaries are unknown.
	PageNumber int

	// SequenceIndex is the 0-based position among chunks sharing SourceName and PageNumber.
	SequenceIndex int
}

// IndexEntry is the persisted unit of a vector index.
type IndexEntry struct {
	// ChunkID is the primary key within an index.
	ChunkID string

	// Text is the chunk content returned by queries.
	Text string

	// SourceName is the Document name the chunk came from.
	SourceName string

	// Embedding is the vector produced by the embedding service.
	Embedding []float32
}

// SearchHit is one ranked result of a similarity query.
type SearchHit struct {
	// ChunkID identifies the matched entry.
	ChunkID string

	// Text is the matched chunk content.
	Text string

	// SourceName is the Document name the chunk came from.
	SourceName string

	// Score is the cosine similarity to the query, higher is closer.
	Score float64
}
