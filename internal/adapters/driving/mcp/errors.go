// Package mcp exposes riskrag over the Model Context Protocol so AI
// assistants can ask questions about a project and generate risk reports.
package mcp

import "errors"

// Errors returned by Ports.Validate.
var (
	ErrMissingQueryService  = errors.New("mcp: query service is required")
	ErrMissingReportService = errors.New("mcp: report service is required")
)
