package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/riskrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/riskrag/internal/adapters/driven/config/file"
	pdfrenderer "github.com/custodia-labs/riskrag/internal/adapters/driven/renderer/pdf"
	"github.com/custodia-labs/riskrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/riskrag/internal/core/services"
	"github.com/custodia-labs/riskrag/internal/logger"
	"github.com/custodia-labs/riskrag/internal/normalisers/pdf"
	"github.com/custodia-labs/riskrag/internal/postprocessors/chunker"
)

// Command annotations read by the root pre-run hook.
const (
	// annotationAI marks commands that need the embedding and LLM services.
	annotationAI = "riskrag/ai"

	// annotationNoServices marks commands that run without any service.
	annotationNoServices = "riskrag/no-services"
)

var (
	// bootstrapHome is the data directory. Empty disables bootstrapping.
	bootstrapHome string

	closers []func() error
)

// EnableBootstrap makes every command wire its services from the settings
// and stores under home before it runs.
func EnableBootstrap(home string) {
	bootstrapHome = home
}

// bootstrap opens the config, prompt and SQLite stores under home and
// installs the services built from them. Providers are only created and
// pinged when withAI is set, so plain bookkeeping commands stay fast and
// work offline.
func bootstrap(home string, withAI bool) error {
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	closers = append(closers, store.Close)
	logger.Debug("opened database", "path", store.Path())

	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	svcs := Services{
		Project:       services.NewProjectService(store.ProjectStore(), store.VectorStore()),
		Document:      services.NewDocumentService(store.ProjectStore(), store.DocumentStore(), store.FileStore(), store.VectorStore()),
		Settings:      settingsSvc,
		ReportTimeout: settings.Report.Timeout,
	}

	deps := services.PipelineDeps{
		Projects:  store.ProjectStore(),
		Documents: store.DocumentStore(),
		Reports:   store.ReportStore(),
		Vectors:   store.VectorStore(),
		Extractor: pdf.New(),
		Splitter: chunker.New(
			chunker.WithChunkSize(settings.Chunking.Size),
			chunker.WithOverlap(settings.Chunking.Overlap),
		),
		Renderer: pdfrenderer.New(),
		Prompts:  prompts,
	}

	if withAI {
		result := ai.Init(settings)
		closers = append(closers, func() error {
			result.Close()
			return nil
		})
		for _, w := range result.Warnings {
			logger.Debug("AI provider unavailable", "detail", w)
		}
		svcs.Warnings = result.Warnings
		deps.Embedder = result.EmbeddingService
		deps.Engine = services.NewRAGQueryEngine(result.LLMService, settings.Index.TopK)
	} else {
		deps.Engine = services.NewRAGQueryEngine(nil, settings.Index.TopK)
	}
	deps.Engine.SetPromptStore(prompts)

	pipeline := services.NewReportPipeline(deps, services.PipelineConfig{Mode: settings.Index.Mode})
	svcs.Report = pipeline
	svcs.Query = pipeline

	SetServices(svcs)
	return nil
}

// closeServices releases everything bootstrap opened, newest first.
func closeServices() {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	closers = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warn("failed to close services", "error", err)
	}
}
