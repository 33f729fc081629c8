package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// dateLayout is the format of project dates on the command line.
const dateLayout = "2006-01-02"

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, inspect and delete projects. Documents and reports belong to a project.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project",
	Example: `  riskrag project add --title "Estimation Tool" --manager "Dana" \
    --start 2024-01-15 --end 2024-09-30`,
	Args: cobra.NoArgs,
	RunE: runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show project details",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [project-id]",
	Short: "Delete a project with its documents and reports",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

// Flags for project add.
var (
	projectTitle   string
	projectManager string
	projectStart   string
	projectEnd     string
)

func init() {
	projectAddCmd.Flags().StringVarP(&projectTitle, "title", "t", "", "Project title (required)")
	projectAddCmd.Flags().StringVarP(&projectManager, "manager", "m", "", "Project manager")
	projectAddCmd.Flags().StringVar(&projectStart, "start", "", "Start date (YYYY-MM-DD)")
	projectAddCmd.Flags().StringVar(&projectEnd, "end", "", "End date (YYYY-MM-DD)")
	_ = projectAddCmd.MarkFlagRequired("title")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, _ []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	start, err := parseDate("start", projectStart)
	if err != nil {
		return err
	}
	end, err := parseDate("end", projectEnd)
	if err != nil {
		return err
	}

	project := &domain.Project{
		Title:     projectTitle,
		Manager:   projectManager,
		StartDate: start,
		EndDate:   end,
	}
	if err := projectService.Create(commandContext(cmd), project); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("invalid project: title is required and the end date must not precede the start date: %w", err)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	cmd.Printf("Created project: %s\n", project.ID)
	cmd.Printf("  Title: %s\n", project.Title)
	return nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	projects, err := projectService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		cmd.Println("No projects yet. Create one with 'riskrag project add --title <title>'.")
		return nil
	}

	cmd.Println("Projects:")
	cmd.Println()
	for i := range projects {
		cmd.Printf("  %s\n", projects[i].ID)
		cmd.Printf("    Title: %s\n", projects[i].Title)
		if projects[i].Manager != "" {
			cmd.Printf("    Manager: %s\n", projects[i].Manager)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d projects\n", len(projects))
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	project, err := projectService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	cmd.Printf("Project: %s\n\n", project.ID)
	cmd.Printf("  Title:    %s\n", project.Title)
	cmd.Printf("  Manager:  %s\n", valueOr(project.Manager, "(none)"))
	cmd.Printf("  Start:    %s\n", formatDate(project.StartDate))
	cmd.Printf("  End:      %s\n", formatDate(project.EndDate))
	cmd.Printf("  Created:  %s\n", project.CreatedAt.Format("2006-01-02 15:04:05"))

	if documentService != nil {
		docs, err := documentService.List(commandContext(cmd), project.ID)
		if err == nil {
			cmd.Printf("  Documents: %d\n", len(docs))
		}
	}
	if reportService != nil {
		reports, err := reportService.List(commandContext(cmd), project.ID)
		if err == nil {
			cmd.Printf("  Reports:   %d\n", len(reports))
		}
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	if err := projectService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	cmd.Printf("Deleted project: %s\n", args[0])
	return nil
}

func parseDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q, expected YYYY-MM-DD", name, value)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "(not set)"
	}
	return t.Format(dateLayout)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
