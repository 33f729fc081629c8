package mcp

import (
	"time"

	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers free-text questions.
	Query driving.QueryService

	// Report generates and lists risk reports.
	Report driving.ReportService

	// Project lists projects. Optional.
	Project driving.ProjectService

	// Document lists documents and serves stored files. Optional.
	Document driving.DocumentService

	// Timeout bounds each ask or generate_report call. Zero means no limit
	// beyond the client's own context.
	Timeout time.Duration
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Report == nil {
		return ErrMissingReportService
	}
	return nil
}
