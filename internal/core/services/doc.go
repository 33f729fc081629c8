// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval pipeline lives here: chunk identity, the vector index
// handle, the RAG query engine, the risk answer parser and the report
// pipeline that ties them together.
package services
