// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database connection backs:
//
//   - ProjectStore: project records
//   - DocumentStore: uploaded PDF bytes
//   - ReportStore: rendered risk reports
//   - FileStore: raw bytes lookup for documents and reports
//   - VectorStore: named vector indexes of chunk embeddings
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Vectors
//
// Embeddings are stored as little-endian float32 blobs and ranked in process
// by cosine similarity. Index names are free-form, "default" and
// "project:{id}" are the ones the pipeline uses.
//
// # Data Location
//
// By default, the database is stored at ~/.riskrag/data/riskrag.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
