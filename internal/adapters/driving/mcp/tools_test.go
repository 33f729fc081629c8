package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the model answer", func(t *testing.T) {
		query := &mockQueryService{answer: "The budget is 2M."}
		server := newTestServer(t, &Ports{Query: query, Report: &mockReportService{}})

		_, output, err := server.handleAsk(ctx, nil, AskInput{ProjectID: "p1", Question: "What is the budget?"})

		require.NoError(t, err)
		assert.Equal(t, "The budget is 2M.", output.Answer)
		assert.Equal(t, "p1", query.lastProject)
		assert.Equal(t, "What is the budget?", query.lastQuestion)
	})

	t.Run("requires project and question", func(t *testing.T) {
		server := newTestServer(t, validPorts())

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})
		assert.ErrorContains(t, err, "project_id is required")

		_, _, err = server.handleAsk(ctx, nil, AskInput{ProjectID: "p1", Question: "  "})
		assert.ErrorContains(t, err, "question is required")
	})

	t.Run("wraps service errors", func(t *testing.T) {
		query := &mockQueryService{err: domain.ErrModelInvocation}
		server := newTestServer(t, &Ports{Query: query, Report: &mockReportService{}})

		_, _, err := server.handleAsk(ctx, nil, AskInput{ProjectID: "p1", Question: "q"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrModelInvocation)
		assert.Contains(t, err.Error(), "answering question")
	})
}

func TestServer_handleGenerateReport(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	report := &domain.Report{
		ID:        "r1",
		ProjectID: "p1",
		Name:      "Risk Report 01 March 2024.pdf",
		Size:      2048,
		RiskCount: 3,
		CreatedAt: created,
	}

	t.Run("waits by default", func(t *testing.T) {
		reports := &mockReportService{report: report}
		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Report: reports})

		_, output, err := server.handleGenerateReport(ctx, nil, GenerateReportInput{ProjectID: "p1"})

		require.NoError(t, err)
		assert.Equal(t, 1, reports.generated)
		assert.Equal(t, 0, reports.tried)
		assert.Equal(t, "r1", output.ID)
		assert.Equal(t, 3, output.RiskCount)
		assert.Equal(t, int64(2048), output.Size)
		assert.Equal(t, "2024-03-01T10:00:00Z", output.CreatedAt)
		assert.Equal(t, "riskrag://reports/r1", output.URI)
	})

	t.Run("no_wait uses TryGenerate", func(t *testing.T) {
		reports := &mockReportService{tryErr: domain.ErrReportInProgress}
		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Report: reports})

		_, _, err := server.handleGenerateReport(ctx, nil, GenerateReportInput{ProjectID: "p1", NoWait: true})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrReportInProgress)
		assert.Equal(t, 1, reports.tried)
		assert.Equal(t, 0, reports.generated)
	})

	t.Run("requires project id", func(t *testing.T) {
		server := newTestServer(t, validPorts())

		_, _, err := server.handleGenerateReport(ctx, nil, GenerateReportInput{})

		assert.ErrorContains(t, err, "project_id is required")
	})
}

func TestServer_RunTimeout(t *testing.T) {
	ctx := context.Background()

	t.Run("bounds ask and generate_report", func(t *testing.T) {
		query := &mockQueryService{answer: "a"}
		reports := &mockReportService{report: &domain.Report{ID: "r1"}}
		server := newTestServer(t, &Ports{Query: query, Report: reports, Timeout: 10 * time.Minute})
		before := time.Now()

		_, _, err := server.handleAsk(ctx, nil, AskInput{ProjectID: "p1", Question: "q"})
		require.NoError(t, err)
		_, _, err = server.handleGenerateReport(ctx, nil, GenerateReportInput{ProjectID: "p1"})
		require.NoError(t, err)

		assert.WithinDuration(t, before.Add(10*time.Minute), query.deadline, time.Minute)
		assert.WithinDuration(t, before.Add(10*time.Minute), reports.deadline, time.Minute)
	})

	t.Run("zero timeout keeps the caller deadline", func(t *testing.T) {
		query := &mockQueryService{answer: "a"}
		server := newTestServer(t, &Ports{Query: query, Report: &mockReportService{}})

		_, _, err := server.handleAsk(ctx, nil, AskInput{ProjectID: "p1", Question: "q"})

		require.NoError(t, err)
		assert.True(t, query.deadline.IsZero())
	})
}

func TestServer_handleListReports(t *testing.T) {
	ctx := context.Background()

	t.Run("lists reports", func(t *testing.T) {
		reports := &mockReportService{reports: []domain.Report{
			{ID: "r2", Name: "Risk Report 02 March 2024.pdf"},
			{ID: "r1", Name: "Risk Report 01 March 2024.pdf"},
		}}
		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Report: reports})

		_, output, err := server.handleListReports(ctx, nil, ListReportsInput{ProjectID: "p1"})

		require.NoError(t, err)
		assert.Equal(t, "p1", reports.lastListed)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "r2", output.Reports[0].ID)
		assert.Equal(t, "r1", output.Reports[1].ID)
	})

	t.Run("empty list", func(t *testing.T) {
		server := newTestServer(t, validPorts())

		_, output, err := server.handleListReports(ctx, nil, ListReportsInput{ProjectID: "p1"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Reports)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		reports := &mockReportService{err: errors.New("database error")}
		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Report: reports})

		_, _, err := server.handleListReports(ctx, nil, ListReportsInput{ProjectID: "p1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing reports")
	})
}
