package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [project-id] [question...]",
	Short: "Ask a question about a project's documents",
	Long: `Index the project's documents and answer a free-text question using only
the retrieved context. The model's answer is printed as-is.`,
	Example:     `  riskrag ask 3f2a... "What is the planned budget?"`,
	Args:        cobra.MinimumNArgs(2),
	Annotations: map[string]string{annotationAI: "true"},
	RunE:        runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := strings.TrimSpace(strings.Join(args[1:], " "))
	if question == "" {
		return errors.New("question must not be empty")
	}

	ctx, cancel := withReportTimeout(commandContext(cmd))
	defer cancel()

	answer, err := queryService.Ask(ctx, args[0], question)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", explain(err))
	}

	cmd.Println(strings.TrimSpace(answer))
	return nil
}
