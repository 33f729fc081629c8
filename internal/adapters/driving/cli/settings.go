package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/riskrag/internal/core/domain"
	"github.com/custodia-labs/riskrag/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking, indexing and report options.

Use subcommands to change a single key or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting by its key.

Keys:
  ` + strings.Join(services.SettingsKeys(), "\n  ") + `

Examples:
  riskrag settings set embedding.provider local
  riskrag settings set llm.model llama3
  riskrag settings set index.mode incremental
  riskrag settings set report.timeout 20m`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose the index mode and configure both AI providers.`,
	RunE:  runSettingsWizard,
}

// settingsInput is where the wizard reads answers from.
var settingsInput io.Reader = os.Stdin

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider == domain.AIProviderOllama || settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", valueOr(settings.Embedding.BaseURL, "(default)"))
	}
	printAPIKey(cmd, settings.Embedding.Provider, settings.Embedding.APIKey)
	if settings.Embedding.RateLimit > 0 {
		cmd.Printf("  Rate limit: %s requests/s\n", strconv.FormatFloat(settings.Embedding.RateLimit, 'f', -1, 64))
	} else {
		cmd.Println("  Rate limit: none")
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider == domain.AIProviderOllama || settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", valueOr(settings.LLM.BaseURL, "(default)"))
	}
	printAPIKey(cmd, settings.LLM.Provider, settings.LLM.APIKey)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d characters\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d characters\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Mode: %s\n", settings.Index.Mode.Description())
	cmd.Printf("  Top K: %d\n", settings.Index.TopK)
	cmd.Println()

	cmd.Println("[Report]")
	cmd.Printf("  Timeout: %s\n", settings.Report.Timeout)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'riskrag settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if strings.HasSuffix(key, ".api_key") {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("riskrag Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(settingsInput)

	// Step 1: Index mode
	cmd.Println("Step 1: Select Index Mode")
	cmd.Println("-------------------------")
	modes := domain.AllIndexModes()
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	modeIdx := parseChoice(readLine(reader), len(modes), 1)
	selectedMode := modes[modeIdx-1]

	if err := settingsService.Set(services.KeyIndexMode, selectedMode.String()); err != nil {
		return fmt.Errorf("failed to set index mode: %w", err)
	}
	cmd.Printf("Set index mode to: %s\n\n", selectedMode.Description())

	// Step 2: Embedding provider
	cmd.Println("Step 2: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	if err := configureEmbeddingProvider(cmd, reader); err != nil {
		return err
	}

	// Step 3: LLM provider
	cmd.Println("Step 3: Configure LLM Provider")
	cmd.Println("------------------------------")
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider, model, apiKey, err := promptProvider(cmd, reader,
		domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", provider.Description(), model)
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider, model, apiKey, err := promptProvider(cmd, reader,
		domain.AllLLMProviders(), domain.DefaultLLMModels())
	if err != nil {
		return err
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", provider.Description(), model)
	return nil
}

// promptProvider asks for a provider, a model and, when needed, an API key.
func promptProvider(
	cmd *cobra.Command,
	reader *bufio.Reader,
	providers []domain.AIProvider,
	defaults map[domain.AIProvider]string,
) (domain.AIProvider, string, string, error) {
	cmd.Println("Select Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := defaults[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return "", "", "", errors.New("API key is required for this provider")
		}
	}

	return provider, model, apiKey, nil
}

// Helper functions.

func printAPIKey(cmd *cobra.Command, provider domain.AIProvider, key string) {
	if !provider.RequiresAPIKey() {
		return
	}
	if key == "" {
		cmd.Println("  API Key: (not set)")
		return
	}
	cmd.Printf("  API Key: %s\n", maskAPIKey(key))
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if f, ok := settingsInput.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
