// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ProjectStore, DocumentStore, ReportStore, FileStore: Relational persistence (SQLite)
//   - VectorStore: Embedding storage and similarity search, scoped by index name
//   - EmbeddingService: Turns text into vectors. Must be deterministic per input.
//   - LLMService: Turns a prompt into an answer
//   - TextExtractor: Turns PDF bytes into page text
//   - ReportRenderer: Turns parsed risks into a PDF
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: Prompt overrides. Without it, built-in templates are used.
//   - FolderWatcher: Only needed for watch-mode imports.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
