package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer       string
	err          error
	lastProject  string
	lastQuestion string
	deadline     time.Time
}

func (m *mockQueryService) Ask(ctx context.Context, projectID, question string) (string, error) {
	m.deadline, _ = ctx.Deadline()
	m.lastProject = projectID
	m.lastQuestion = question
	return m.answer, m.err
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	report     *domain.Report
	reports    []domain.Report
	err        error
	tryErr     error
	generated  int
	tried      int
	lastListed string
	deadline   time.Time
}

func (m *mockReportService) Generate(ctx context.Context, _ string) (*domain.Report, error) {
	m.deadline, _ = ctx.Deadline()
	m.generated++
	return m.report, m.err
}

func (m *mockReportService) TryGenerate(ctx context.Context, _ string) (*domain.Report, error) {
	m.deadline, _ = ctx.Deadline()
	m.tried++
	if m.tryErr != nil {
		return nil, m.tryErr
	}
	return m.report, m.err
}

func (m *mockReportService) List(_ context.Context, projectID string) ([]domain.Report, error) {
	m.lastListed = projectID
	return m.reports, m.err
}

// mockProjectService is a mock implementation of driving.ProjectService.
type mockProjectService struct {
	projects []domain.Project
	err      error
}

func (m *mockProjectService) Create(_ context.Context, _ *domain.Project) error {
	return m.err
}

func (m *mockProjectService) Get(_ context.Context, _ string) (*domain.Project, error) {
	if len(m.projects) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.projects[0], m.err
}

func (m *mockProjectService) List(_ context.Context) ([]domain.Project, error) {
	return m.projects, m.err
}

func (m *mockProjectService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	file      *domain.StoredFile
	err       error
}

func (m *mockDocumentService) Add(_ context.Context, _, _ string, _ []byte) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) AddFile(_ context.Context, _, _ string) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) ImportFolder(_ context.Context, _, _ string) (*driving.ImportResult, error) {
	return &driving.ImportResult{}, m.err
}

func (m *mockDocumentService) WatchFolder(
	_ context.Context, _ driven.FolderWatcher, _, _ string, _ func(*domain.Document),
) error {
	return m.err
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) GetFile(_ context.Context, _ string, _ domain.FileKind) (*domain.StoredFile, error) {
	return m.file, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func validPorts() *Ports {
	return &Ports{
		Query:  &mockQueryService{},
		Report: &mockReportService{},
	}
}
