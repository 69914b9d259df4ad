package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

var (
	llmProvider string
	llmModel    string
	llmBaseURL  string
	llmAPIKey   string
	serverAddr  string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI provider and server options.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the AI provider",
	Long: `Configure the text-generation provider used for answer review and
follow-up question generation.

Available providers:
  ollama - Local Ollama instance (no API key required)
  gemini - Google Gemini cloud API (requires API key)`,
	RunE: runSettingsLLM,
}

var settingsServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Configure the HTTP API server",
	RunE:  runSettingsServer,
}

func init() {
	settingsLLMCmd.Flags().StringVar(&llmProvider, "provider", "", "AI provider (ollama or gemini)")
	settingsLLMCmd.Flags().StringVar(&llmModel, "model", "", "model name")
	settingsLLMCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "API base URL (for Ollama)")
	settingsLLMCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "API key (for Gemini; prompted when omitted)")
	settingsServerCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address for the HTTP API")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsServerCmd)
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

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Addr: %s\n", settings.Server.Addr)

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if llmProvider != "" {
		provider := domain.AIProvider(llmProvider)
		if !provider.IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, llmProvider)
		}
		settings.LLM.Provider = provider
	}
	if llmModel != "" {
		settings.LLM.Model = llmModel
	}
	if llmBaseURL != "" {
		settings.LLM.BaseURL = llmBaseURL
	}
	if llmAPIKey != "" {
		settings.LLM.APIKey = llmAPIKey
	}

	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		cmd.Print("Enter API key: ")
		settings.LLM.APIKey = readSecret()
		cmd.Println()
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("LLM provider set to %s\n", settings.LLM.Provider.Description())
	return nil
}

func runSettingsServer(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if serverAddr != "" {
		settings.Server.Addr = serverAddr
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Server address set to %s\n", settings.Server.Addr)
	return nil
}

// readSecret reads a value without echoing when stdin is a terminal.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
