package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// Ensure ReportPipeline implements the interfaces.
var (
	_ driving.ReportService = (*ReportPipeline)(nil)
	_ driving.QueryService  = (*ReportPipeline)(nil)
)

// ReportDateLayout formats the generation date shown in report names and titles.
const ReportDateLayout = "02 January 2006"

// defaultExtractConcurrency bounds parallel PDF extraction.
const defaultExtractConcurrency = 4

// riskQuestion asks the model for risks in the grammar ParseRisks reads.
const riskQuestion = `Please write a list of risks with following risk attributes (Risk Name, ` +
	`Risk Description (impact from this risk), Probability in %(0-100), ` +
	`Context explanation (why are you write this risk), Risk mitigation way) ` +
	`based on given context ONLY from project charter, NOT from meeting minutes
Please provide a list of project risks in the following format:
Risk [number]:
- Risk Name: [text]
- Risk Description: [text]
- Probability: [percent]
- Context Explanation: [text]
- Risk Mitigation Way: [text]
Ensure that each risk is numbered sequentially and includes all the specified details.
Example:
Risk 1:
- Risk Name: Model Accuracy
- Risk Description: Inaccurate estimation of Functional Points (FPA) and Configuration Points (CPA) due to inadequacies or errors in the LLM model.
- Probability: 20%
- Context Explanation: The success of this project heavily relies on the accuracy of the developed NLP model for FPA and CPA estimation.
- Risk Mitigation Way: Implement rigorous testing methodologies, including cross-validation techniques, to ensure model accuracy.
`

// ReportName returns the stored name of a report generated on date.
func ReportName(date string) string {
	return "Risk Report " + date + ".pdf"
}

// PipelineConfig tunes a ReportPipeline.
type PipelineConfig struct {
	// Mode selects full rebuild or incremental per-project indexes.
	Mode domain.IndexMode

	// ExtractConcurrency bounds parallel extraction. Zero uses a default.
	ExtractConcurrency int

	// Now returns the generation time. Defaults to time.Now.
	Now func() time.Time
}

// PipelineDeps holds the collaborators of a ReportPipeline.
type PipelineDeps struct {
	Projects  driven.ProjectStore
	Documents driven.DocumentStore
	Reports   driven.ReportStore
	Vectors   driven.VectorStore
	Embedder  driven.EmbeddingService
	Extractor driven.TextExtractor
	Splitter  driven.ChunkSplitter
	Renderer  driven.ReportRenderer
	Engine    *RAGQueryEngine
	Prompts   driven.PromptStore
}

// ReportPipeline turns a project's documents into a stored risk report.
//
// The shared index used in full mode is process-wide state, so runs are
// serialised through a single slot. Partially applied index changes of a
// failed run are not rolled back.
type ReportPipeline struct {
	deps        PipelineDeps
	mode        domain.IndexMode
	concurrency int
	now         func() time.Time

	// sem holds one token while a run owns the index.
	sem chan struct{}
}

// NewReportPipeline creates a report pipeline.
func NewReportPipeline(deps PipelineDeps, cfg PipelineConfig) *ReportPipeline {
	if !cfg.Mode.IsValid() {
		cfg.Mode = domain.IndexModeFull
	}
	if cfg.ExtractConcurrency <= 0 {
		cfg.ExtractConcurrency = defaultExtractConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReportPipeline{
		deps:        deps,
		mode:        cfg.Mode,
		concurrency: cfg.ExtractConcurrency,
		now:         cfg.Now,
		sem:         make(chan struct{}, 1),
	}
}

// Generate runs the pipeline for one project, waiting for any running
// generation to finish first.
func (p *ReportPipeline) Generate(ctx context.Context, projectID string) (*domain.Report, error) {
	if err := p.acquire(ctx); err != nil {
		return nil, err
	}
	defer p.release()

	return p.generate(ctx, projectID)
}

// TryGenerate runs the pipeline only if no other run is in progress.
func (p *ReportPipeline) TryGenerate(ctx context.Context, projectID string) (*domain.Report, error) {
	select {
	case p.sem <- struct{}{}:
	default:
		return nil, domain.ErrReportInProgress
	}
	defer p.release()

	return p.generate(ctx, projectID)
}

// List returns a project's reports.
func (p *ReportPipeline) List(ctx context.Context, projectID string) ([]domain.Report, error) {
	if _, err := p.deps.Projects.Get(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p.deps.Reports.ListReports(ctx, projectID)
}

// Ask indexes a project's documents and answers a free-text question.
// It shares the run slot with Generate.
func (p *ReportPipeline) Ask(ctx context.Context, projectID, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if err := p.acquire(ctx); err != nil {
		return "", err
	}
	defer p.release()

	if _, err := p.deps.Projects.Get(ctx, projectID); err != nil {
		return "", fmt.Errorf("get project: %w", err)
	}

	index := p.indexFor(projectID)
	if err := p.resetShared(ctx, index); err != nil {
		return "", err
	}
	if _, err := p.ingest(ctx, projectID, index); err != nil {
		return "", err
	}

	answer, err := p.deps.Engine.Answer(ctx, index, question)
	if err != nil {
		return "", err
	}

	p.releaseShared(ctx, index)
	return answer, nil
}

func (p *ReportPipeline) generate(ctx context.Context, projectID string) (*domain.Report, error) {
	logger.Section("Report generation")

	// 1. Verify the project exists
	project, err := p.deps.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	logger.Info("generating risk report", "project", project.Title, "mode", p.mode)

	// 2. Full rebuild starts from an empty index
	index := p.indexFor(projectID)
	if err := p.resetShared(ctx, index); err != nil {
		return nil, err
	}

	// 3-6. Load, extract, split, identify and index
	if _, err := p.ingest(ctx, projectID, index); err != nil {
		return nil, err
	}

	// 7. Ask the risk question
	answer, err := p.deps.Engine.Answer(ctx, index, p.riskQuestion())
	if err != nil {
		return nil, err
	}

	// 8. Parse
	risks := ParseRisks(answer)
	if len(risks) == 0 {
		logger.Warn("no risks parsed from model answer", "project", projectID)
	}

	// 9. Render
	now := p.now()
	date := now.Format(ReportDateLayout)
	data, err := p.deps.Renderer.Render(ctx, risks, date)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	// 10. Persist
	report := &domain.Report{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      ReportName(date),
		Data:      data,
		Size:      int64(len(data)),
		RiskCount: len(risks),
		CreatedAt: now,
	}
	if err := p.deps.Reports.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	// 11. The shared index only lives for one run
	p.releaseShared(ctx, index)

	logger.Info("risk report saved", "report", report.Name, "risks", len(risks))
	return report, nil
}

// ingest indexes every extractable document of the project and returns how
// many chunks were newly added.
func (p *ReportPipeline) ingest(ctx context.Context, projectID string, index *VectorIndex) (int, error) {
	docs, err := p.deps.Documents.ListDocuments(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}
	logger.Debug("loaded documents", "project", projectID, "count", len(docs))

	pages, err := p.extractAll(ctx, docs)
	if err != nil {
		return 0, err
	}

	chunks := AssignChunkIDs(p.deps.Splitter.Split(pages))
	logger.Debug("split documents", "pages", len(pages), "chunks", len(chunks))

	added, err := index.AddIfAbsent(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	return added, nil
}

// extractAll extracts documents in parallel and returns their pages in
// document order. Documents that fail extraction are logged and skipped.
func (p *ReportPipeline) extractAll(ctx context.Context, docs []domain.Document) ([]domain.PageText, error) {
	results := make([][]domain.PageText, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			pages, err := p.deps.Extractor.Extract(gctx, doc.Name, doc.Data)
			if err != nil {
				if errors.Is(err, domain.ErrExtraction) {
					logger.Warn("skipping document", "document", doc.Name, "error", err)
					return nil
				}
				return fmt.Errorf("extract %s: %w", doc.Name, err)
			}
			texts := make([]domain.PageText, len(pages))
			for j, page := range pages {
				texts[j] = domain.PageText{SourceName: doc.Name, PageNumber: page.Number, Text: page.Text}
			}
			results[i] = texts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pages []domain.PageText
	for _, r := range results {
		pages = append(pages, r...)
	}
	return pages, nil
}

func (p *ReportPipeline) indexFor(projectID string) *VectorIndex {
	name := SharedIndexName
	if p.mode == domain.IndexModeIncremental {
		name = ProjectIndexName(projectID)
	}
	return NewVectorIndex(name, p.deps.Vectors, p.deps.Embedder)
}

// resetShared empties the index before a full-mode run.
func (p *ReportPipeline) resetShared(ctx context.Context, index *VectorIndex) error {
	if p.mode != domain.IndexModeFull {
		return nil
	}
	return index.Clear(ctx)
}

// releaseShared empties the index after a successful full-mode run.
func (p *ReportPipeline) releaseShared(ctx context.Context, index *VectorIndex) {
	if p.mode != domain.IndexModeFull {
		return
	}
	if err := index.Clear(ctx); err != nil {
		logger.Warn("failed to clear index after run", "index", index.Name(), "error", err)
	}
}

func (p *ReportPipeline) riskQuestion() string {
	if p.deps.Prompts == nil {
		return riskQuestion
	}
	q, err := p.deps.Prompts.Load(driven.PromptRiskQuestion)
	if err != nil || q == "" {
		return riskQuestion
	}
	return q
}

func (p *ReportPipeline) acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ReportPipeline) release() {
	<-p.sem
}
