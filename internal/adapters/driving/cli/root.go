// Package cli implements the riskrag command line on top of cobra.
//
// Commands talk to the core only through driving ports held in package
// variables. Bootstrap fills them from the on-disk settings; tests swap in
// fakes with SetServices.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/riskrag/internal/connectors/filesystem"
	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/ports/driven"
	"github.com/custodia-labs/riskrag/internal/core/ports/driving"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// HomeEnv overrides the data directory.
const HomeEnv = "RISKRAG_HOME"

var (
	version = "dev"

	projectService  driving.ProjectService
	documentService driving.DocumentService
	reportService   driving.ReportService
	queryService    driving.QueryService
	settingsService driving.SettingsService

	// newFolderWatcher creates the watcher used by 'document import --watch'.
	newFolderWatcher = func() driven.FolderWatcher { return filesystem.New() }

	// reportTimeout bounds one report generation or question. Zero means no limit.
	reportTimeout time.Duration

	// aiWarnings holds provider problems found at startup.
	aiWarnings []string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "riskrag",
	Short: "Project risk reports from your documents",
	Long: `riskrag stores PDF documents per project, indexes them for retrieval and
asks a language model for a structured list of project risks. The answer is
rendered as a "Risk Management Report" PDF and stored with the project.

Typical flow:
  riskrag project add --title "Estimation Tool" --manager "Dana"
  riskrag document import <project-id> ./docs
  riskrag report generate <project-id>
  riskrag report get <report-id> -o report.pdf`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if verbose {
			logger.SetVerbose(true)
		}
		if bootstrapHome == "" || cmd.Annotations[annotationNoServices] == "true" {
			return nil
		}
		return bootstrap(bootstrapHome, cmd.Annotations[annotationAI] == "true")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress logs")
}

// Services holds the driving ports used by commands.
type Services struct {
	Project  driving.ProjectService
	Document driving.DocumentService
	Report   driving.ReportService
	Query    driving.QueryService
	Settings driving.SettingsService

	// ReportTimeout bounds report generation and questions.
	ReportTimeout time.Duration

	// Warnings are shown when a command fails for lack of an AI provider.
	Warnings []string
}

// SetServices installs the driving ports used by commands.
func SetServices(s Services) {
	projectService = s.Project
	documentService = s.Document
	reportService = s.Report
	queryService = s.Query
	settingsService = s.Settings
	reportTimeout = s.ReportTimeout
	aiWarnings = s.Warnings
}

// SetVersion sets the version printed by 'riskrag version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and closes whatever Bootstrap opened.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// HomeDir returns the data directory: $RISKRAG_HOME, or ~/.riskrag.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".riskrag"), nil
}

// withReportTimeout derives the context for a generation or question.
func withReportTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if reportTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, reportTimeout)
}

// explain adds a hint to errors a user can act on.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return fmt.Errorf("%w\n%s", err, providerHint(domain.ErrEmbeddingUnavailable))
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fmt.Errorf("%w\n%s", err, providerHint(domain.ErrLLMUnavailable))
	case errors.Is(err, domain.ErrReportInProgress):
		return fmt.Errorf("%w; try again when the running report has finished", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w; raise report.timeout with 'riskrag settings set report.timeout 20m'", err)
	default:
		return err
	}
}

// providerHint returns the startup warning for the missing provider, or a
// generic pointer to the settings commands.
func providerHint(sentinel error) string {
	for _, w := range aiWarnings {
		if strings.HasPrefix(w, sentinel.Error()) {
			return w
		}
	}
	return "configure a provider with 'riskrag settings set' (see 'riskrag settings show')"
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
