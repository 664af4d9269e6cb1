package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prompt-eval/evaluator/internal/assistant"
	"github.com/prompt-eval/evaluator/internal/metrics"
	"github.com/prompt-eval/evaluator/internal/model"
	"github.com/prompt-eval/evaluator/pkg/config"
	"github.com/prompt-eval/evaluator/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "evaluator",
	Short: "Evaluate assistant prompt versions against a fixed question set",
	Long: `evaluator runs a fixed question set against an AI assistant under
different prompt versions, validates every link in the responses, and
compares the versions on link quality and response latency.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		metrics.Init()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./evaluator.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}

func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

// newAssistantClient builds the configured provider adapter.
func newAssistantClient() (assistant.Client, error) {
	timeout := time.Duration(cfg.Assistant.TimeoutSec) * time.Second

	switch cfg.Assistant.Provider {
	case "rest", "":
		if cfg.Assistant.Endpoint == "" {
			return nil, fmt.Errorf("assistant.endpoint is required for the rest provider")
		}
		return assistant.NewRESTClient(cfg.Assistant.Endpoint, cfg.Assistant.AuthHeader, timeout), nil
	case "openai":
		if cfg.Assistant.APIKey == "" {
			return nil, fmt.Errorf("assistant.apiKey is required for the openai provider")
		}
		return assistant.NewOpenAIClient(cfg.Assistant.APIKey, cfg.Assistant.Endpoint, cfg.Assistant.Model, timeout), nil
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", cfg.Assistant.Provider)
	}
}

// promptVersions materializes the configured prompt list in file order.
func promptVersions() ([]model.PromptVersion, error) {
	if len(cfg.Prompts) == 0 {
		return nil, fmt.Errorf("no prompt versions configured")
	}
	versions := make([]model.PromptVersion, 0, len(cfg.Prompts))
	seen := make(map[string]bool, len(cfg.Prompts))
	for i, p := range cfg.Prompts {
		if p.ID == "" {
			return nil, fmt.Errorf("prompt %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate prompt id %q", p.ID)
		}
		seen[p.ID] = true
		versions = append(versions, model.PromptVersion{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Version:     p.Version,
			CreatedAt:   time.Now(),
		})
	}
	return versions, nil
}
