package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and fetch risk reports",
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate [project-id]",
	Short: "Generate a risk report for a project",
	Long: `Index the project's documents, ask the model for a list of risks and
store the rendered "Risk Management Report" PDF with the project.

Only one report is generated at a time. By default a second run waits for
the first to finish; with --no-wait it fails immediately instead.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationAI: "true"},
	RunE:        runReportGenerate,
}

var reportListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List reports of a project, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportList,
}

var reportGetCmd = &cobra.Command{
	Use:   "get [report-id]",
	Short: "Write a stored report PDF to disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportGet,
}

// Flags for report commands.
var (
	reportNoWait bool
	reportOutput string
)

func init() {
	reportGenerateCmd.Flags().BoolVar(&reportNoWait, "no-wait", false, "Fail if another report is being generated")
	reportGetCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output path (defaults to the stored name)")

	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportGetCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportGenerate(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	ctx, cancel := withReportTimeout(commandContext(cmd))
	defer cancel()

	generate := reportService.Generate
	if reportNoWait {
		generate = reportService.TryGenerate
	}

	cmd.Println("Generating risk report...")
	report, err := generate(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", explain(err))
	}

	cmd.Printf("Saved report: %s\n", report.ID)
	cmd.Printf("  Name:  %s\n", report.Name)
	cmd.Printf("  Risks: %d\n", report.RiskCount)
	cmd.Printf("  Size:  %s\n", formatSize(report.Size))
	if report.RiskCount == 0 {
		cmd.Println("Warning: the model answer contained no risks in the expected format.")
	}
	cmd.Printf("Fetch it with 'riskrag report get %s'\n", report.ID)
	return nil
}

func runReportList(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	projectID := args[0]
	reports, err := reportService.List(commandContext(cmd), projectID)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		cmd.Printf("No reports found for project: %s\n", projectID)
		return nil
	}

	cmd.Printf("Reports for project %s:\n\n", projectID)
	for i := range reports {
		cmd.Printf("  %s\n", reports[i].ID)
		cmd.Printf("    Name:    %s\n", reports[i].Name)
		cmd.Printf("    Risks:   %d\n", reports[i].RiskCount)
		cmd.Printf("    Size:    %s\n", formatSize(reports[i].Size))
		cmd.Printf("    Created: %s (%s)\n",
			reports[i].CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(reports[i].CreatedAt))
		cmd.Println()
	}

	cmd.Printf("Total: %d reports\n", len(reports))
	return nil
}

func runReportGet(cmd *cobra.Command, args []string) error {
	return writeStoredFile(cmd, args[0], domain.FileKindReport, reportOutput)
}
