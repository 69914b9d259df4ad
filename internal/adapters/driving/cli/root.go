// Package cli implements the intervo command-line interface.
// It is a driving adapter: commands wire the driven adapters into the
// core services and expose them over cobra commands.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intervo/internal/adapters/driven/config/file"
	"github.com/custodia-labs/intervo/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/intervo/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/intervo/internal/adapters/driven/llm/throttle"
	"github.com/custodia-labs/intervo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/intervo/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/ports/driven"
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
	"github.com/custodia-labs/intervo/internal/core/services"
	"github.com/custodia-labs/intervo/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	inMemory  bool
	configDir string
	dataDir   string
)

// Services shared by commands, wired in initServices.
var (
	configStore     driven.ConfigStore
	promptStore     *file.PromptStore
	appSettings     *domain.AppSettings
	guideService    driving.GuideService
	sessionService  driving.SessionService
	chatService     driving.ChatService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "intervo",
	Short: "AI-assisted interview engine",
	Long: `Intervo runs structured interviews from versioned discussion guides.

Guides define a question tree with conditional follow-up rules; sessions
walk the tree one question at a time, reviewing each answer and
generating AI follow-up questions where the rules fire.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "memory", false, "use an in-memory store (state is lost on exit)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.intervo)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.intervo/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires driven adapters into the core services. Tests
// inject doubles into the package-level service vars; a second call is
// then a no-op so their doubles survive command execution.
func initServices() error {
	if guideService != nil {
		return nil
	}

	cs, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	configStore = cs
	settingsService = services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	appSettings = settings

	var store driven.Store
	if inMemory {
		store = memory.NewStore()
	} else {
		s, err := sqlite.NewStore(dataDir)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		store = s
	}

	llm, err := buildLLMService(settings.LLM)
	if err != nil {
		return fmt.Errorf("configuring LLM provider: %w", err)
	}

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	promptStore, err = file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	evaluator := services.NewFollowUpEvaluator(llm)
	evaluator.SetPromptStore(promptStore)

	guideService = services.NewGuideService(store)
	sessionService = services.NewSessionService(store, guideService, evaluator)
	chatService = services.NewChatService(llm)

	return nil
}

// buildLLMService constructs the configured text-generation adapter.
// Returns nil when the provider is not usable; follow-up evaluation
// then degrades to producing no follow-ups.
func buildLLMService(cfg domain.LLMSettings) (driven.LLMService, error) {
	switch cfg.Provider {
	case domain.AIProviderGemini:
		if cfg.APIKey == "" {
			logger.Warn("Gemini selected but no API key configured; follow-up generation disabled")
			return nil, nil
		}
		svc, err := gemini.NewLLMService(gemini.LLMConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		// Cloud endpoint, keep under the free-tier rate limit.
		return throttle.NewLLMService(svc, throttle.DefaultRequestsPerSecond, 1), nil

	case domain.AIProviderOllama, "":
		return ollama.NewLLMService(ollama.LLMConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	default:
		return nil, fmt.Errorf("%w: unknown AI provider %q", domain.ErrInvalidInput, cfg.Provider)
	}
}
