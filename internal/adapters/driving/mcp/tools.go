package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project whose documents answer the question"`
	Question  string `json:"question" jsonschema:"the question to answer from the project's documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// GenerateReportInput is the input schema for the generate_report tool.
type GenerateReportInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project to generate a risk report for"`
	NoWait    bool   `json:"no_wait,omitempty" jsonschema:"fail instead of waiting when another report is being generated"`
}

// ReportOutput describes one stored report.
type ReportOutput struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	RiskCount int    `json:"risk_count"`
	CreatedAt string `json:"created_at"`
	URI       string `json:"uri"`
}

// ListReportsInput is the input schema for the list_reports tool.
type ListReportsInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project whose reports to list"`
}

// ListReportsOutput is the output schema for the list_reports tool.
type ListReportsOutput struct {
	Reports []ReportOutput `json:"reports"`
	Count   int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the documents of a project",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_report",
		Description: "Generate and store a risk management report for a project",
	}, s.handleGenerateReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_reports",
		Description: "List the risk reports stored for a project, newest first",
	}, s.handleListReports)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.ProjectID) == "" {
		return nil, AskOutput{}, errors.New("project_id is required")
	}
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	ctx, cancel := s.runContext(ctx)
	defer cancel()

	answer, err := s.ports.Query.Ask(ctx, input.ProjectID, input.Question)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("answering question: %w", err)
	}

	return nil, AskOutput{Answer: answer}, nil
}

// handleGenerateReport handles the generate_report tool invocation.
func (s *Server) handleGenerateReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	if strings.TrimSpace(input.ProjectID) == "" {
		return nil, ReportOutput{}, errors.New("project_id is required")
	}

	generate := s.ports.Report.Generate
	if input.NoWait {
		generate = s.ports.Report.TryGenerate
	}

	ctx, cancel := s.runContext(ctx)
	defer cancel()

	report, err := generate(ctx, input.ProjectID)
	if err != nil {
		return nil, ReportOutput{}, fmt.Errorf("generating report: %w", err)
	}

	return nil, toReportOutput(report), nil
}

// runContext applies the configured run timeout to a tool call.
func (s *Server) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.ports.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.ports.Timeout)
}

// handleListReports handles the list_reports tool invocation.
func (s *Server) handleListReports(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListReportsInput,
) (*mcp.CallToolResult, ListReportsOutput, error) {
	if strings.TrimSpace(input.ProjectID) == "" {
		return nil, ListReportsOutput{}, errors.New("project_id is required")
	}

	reports, err := s.ports.Report.List(ctx, input.ProjectID)
	if err != nil {
		return nil, ListReportsOutput{}, fmt.Errorf("listing reports: %w", err)
	}

	output := ListReportsOutput{
		Reports: make([]ReportOutput, len(reports)),
		Count:   len(reports),
	}
	for i := range reports {
		output.Reports[i] = toReportOutput(&reports[i])
	}

	return nil, output, nil
}

func toReportOutput(r *domain.Report) ReportOutput {
	return ReportOutput{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Name:      r.Name,
		Size:      r.Size,
		RiskCount: r.RiskCount,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		URI:       reportURI(r.ID),
	}
}
