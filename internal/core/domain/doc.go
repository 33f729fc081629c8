// Package domain defines the core business entities for riskrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Project: A team project that owns documents and reports
//   - Document: An uploaded PDF and its raw bytes
//   - Chunk: A bounded span of extracted text, the unit of retrieval
//   - IndexEntry: A chunk stored in the vector index with its embedding
//   - RiskRecord: One risk parsed from a model answer
//   - Report: A rendered risk report artifact
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
