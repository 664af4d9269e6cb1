package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Assistant  AssistantConfig
	Validation ValidationConfig
	Evaluation EvaluationConfig
	Prompts    []PromptConfig
	SQLite     SQLiteConfig
	Report     ReportConfig
	Metrics    MetricsConfig
	Logging    LoggingConfig
}

type AssistantConfig struct {
	// Provider selects the adapter: "rest" for the bespoke assistant
	// endpoint, "openai" for an OpenAI-compatible API.
	Provider   string
	Endpoint   string
	AuthHeader string
	Model      string
	APIKey     string
	TimeoutSec int
}

type ValidationConfig struct {
	TimeoutSec      int
	Workers         int
	MaxAttempts     int
	RetryBackoffSec int
}

type EvaluationConfig struct {
	QuestionDelaySec int
	PromptDelaySec   int
}

// PromptConfig declares one prompt version to evaluate; the ordered list
// in the config file defines the evaluation sequence.
type PromptConfig struct {
	ID          string
	Name        string
	Description string
	Version     string
}

type SQLiteConfig struct {
	Path string
}

type ReportConfig struct {
	OutputDir string
}

type MetricsConfig struct {
	// Addr enables the /metrics listener during a run when non-empty.
	Addr string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("evaluator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetEnvPrefix("PROMPT_EVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("assistant.provider", "rest")
	viper.SetDefault("assistant.timeoutSec", 60)

	viper.SetDefault("validation.timeoutSec", 15)
	viper.SetDefault("validation.workers", 3)
	viper.SetDefault("validation.maxAttempts", 2)
	viper.SetDefault("validation.retryBackoffSec", 1)

	viper.SetDefault("evaluation.questionDelaySec", 2)
	viper.SetDefault("evaluation.promptDelaySec", 5)

	viper.SetDefault("sqlite.path", "./data/evaluation_results.db")

	viper.SetDefault("report.outputDir", "./reports")

	viper.SetDefault("metrics.addr", "")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.outputPath", "stdout")
}
