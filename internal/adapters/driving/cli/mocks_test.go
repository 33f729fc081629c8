package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
)

var errMockService = errors.New("mock service error")

var testCreatedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

// mockProjectService keeps projects in memory.
type mockProjectService struct {
	projects []domain.Project
	created  *domain.Project
	deleted  string
	err      error
}

func (m *mockProjectService) Create(_ context.Context, p *domain.Project) error {
	if m.err != nil {
		return m.err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = "proj-new"
	p.CreatedAt = testCreatedAt
	m.created = p
	return nil
}

func (m *mockProjectService) Get(_ context.Context, id string) (*domain.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.projects {
		if m.projects[i].ID == id {
			p := m.projects[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProjectService) List(_ context.Context) ([]domain.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.projects, nil
}

func (m *mockProjectService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = id
	return nil
}

// mockDocumentService returns canned documents and files.
type mockDocumentService struct {
	docs     []domain.Document
	files    map[string]*domain.StoredFile
	imported *driving.ImportResult
	watched  []*domain.Document
	deleted  string
	err      error
}

func (m *mockDocumentService) Add(_ context.Context, projectID, name string, data []byte) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{ID: "doc-new", ProjectID: projectID, Name: name, Size: int64(len(data))}, nil
}

func (m *mockDocumentService) AddFile(_ context.Context, projectID, path string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{ID: "doc-new", ProjectID: projectID, Name: path, Size: 2048}, nil
}

func (m *mockDocumentService) ImportFolder(_ context.Context, _, _ string) (*driving.ImportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.imported == nil {
		return &driving.ImportResult{}, nil
	}
	return m.imported, nil
}

func (m *mockDocumentService) WatchFolder(
	ctx context.Context,
	watcher driven.FolderWatcher,
	_, dir string,
	onImport func(*domain.Document),
) error {
	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}
	for range events {
	}
	for _, doc := range m.watched {
		onImport(doc)
	}
	return nil
}

func (m *mockDocumentService) List(_ context.Context, projectID string) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Document
	for i := range m.docs {
		if m.docs[i].ProjectID == projectID {
			out = append(out, m.docs[i])
		}
	}
	return out, nil
}

func (m *mockDocumentService) GetFile(_ context.Context, id string, kind domain.FileKind) (*domain.StoredFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.files[string(kind)+"/"+id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = id
	return nil
}

// mockReportService returns a canned report.
type mockReportService struct {
	reports   []domain.Report
	generated int
	tried     int
	err       error
	// block makes Generate wait for ctx, to exercise the timeout.
	block bool
}

func (m *mockReportService) Generate(ctx context.Context, projectID string) (*domain.Report, error) {
	m.generated++
	return m.result(ctx, projectID)
}

func (m *mockReportService) TryGenerate(ctx context.Context, projectID string) (*domain.Report, error) {
	m.tried++
	return m.result(ctx, projectID)
}

func (m *mockReportService) result(ctx context.Context, projectID string) (*domain.Report, error) {
	if m.block {
		<-ctx.Done()
		return nil, fmt.Errorf("generating report: %w", ctx.Err())
	}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Report{
		ID:        "rep-1",
		ProjectID: projectID,
		Name:      "Risk Management Report 2024-03-01",
		Size:      4096,
		RiskCount: 3,
		CreatedAt: testCreatedAt,
	}, nil
}

func (m *mockReportService) List(_ context.Context, projectID string) ([]domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Report
	for i := range m.reports {
		if m.reports[i].ProjectID == projectID {
			out = append(out, m.reports[i])
		}
	}
	return out, nil
}

// mockQueryService records the last question.
type mockQueryService struct {
	answer    string
	question  string
	projectID string
	err       error
}

func (m *mockQueryService) Ask(_ context.Context, projectID, question string) (string, error) {
	m.projectID = projectID
	m.question = question
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// mockSettingsService records Set calls against default settings.
type mockSettingsService struct {
	settings    domain.AppSettings
	sets        map[string]string
	embedding   domain.AIProvider
	llm         domain.AIProvider
	setErr      error
	validateErr error
	pingErr     error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		sets:     make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.embedding = provider
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llm = provider
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.pingErr }

// stubWatcher closes its channel as soon as it is watched.
type stubWatcher struct {
	closed bool
}

func (w *stubWatcher) Watch(_ context.Context, _ string) (<-chan driven.FileEvent, error) {
	ch := make(chan driven.FileEvent)
	close(ch)
	return ch, nil
}

func (w *stubWatcher) Close() error {
	w.closed = true
	return nil
}

// testServices holds the fakes installed by setupTestServices.
type testServices struct {
	project  *mockProjectService
	document *mockDocumentService
	report   *mockReportService
	query    *mockQueryService
	settings *mockSettingsService
}

// setupTestServices installs fakes with one project, one document and one
// report, and returns a cleanup that restores the previous state.
func setupTestServices() (*testServices, func()) {
	oldProject, oldDocument, oldReport := projectService, documentService, reportService
	oldQuery, oldSettings := queryService, settingsService
	oldTimeout, oldWarnings, oldWatcher := reportTimeout, aiWarnings, newFolderWatcher

	ts := &testServices{
		project: &mockProjectService{projects: []domain.Project{{
			ID:        "proj-1",
			Title:     "Estimation Tool",
			Manager:   "Dana",
			StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			CreatedAt: testCreatedAt,
		}}},
		document: &mockDocumentService{
			docs: []domain.Document{{
				ID: "doc-1", ProjectID: "proj-1", Name: "charter.pdf", Size: 1536, CreatedAt: testCreatedAt,
			}},
			files: map[string]*domain.StoredFile{
				"document/doc-1": {Name: "charter.pdf", Data: []byte("%PDF-1.4 charter")},
				"report/rep-1":   {Name: "Risk Management Report 2024-03-01.pdf", Data: []byte("%PDF-1.4 report")},
			},
		},
		report: &mockReportService{reports: []domain.Report{{
			ID: "rep-1", ProjectID: "proj-1", Name: "Risk Management Report 2024-03-01",
			Size: 4096, RiskCount: 3, CreatedAt: testCreatedAt,
		}}},
		query:    &mockQueryService{answer: "  The budget is 120k.\n"},
		settings: newMockSettingsService(),
	}

	SetServices(Services{
		Project:  ts.project,
		Document: ts.document,
		Report:   ts.report,
		Query:    ts.query,
		Settings: ts.settings,
	})

	return ts, func() {
		projectService, documentService, reportService = oldProject, oldDocument, oldReport
		queryService, settingsService = oldQuery, oldSettings
		reportTimeout, aiWarnings, newFolderWatcher = oldTimeout, oldWarnings, oldWatcher
	}
}

// executeCommand runs the root command with args and returns its combined
// output. Flags are reset first because cobra keeps them between runs.
func executeCommand(args ...string) (string, error) {
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
