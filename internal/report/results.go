package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prompt-eval/evaluator/internal/model"
)

// Results is the on-disk artifact of one finished run, consumed by the
// report renderers and the dashboard server.
type Results struct {
	Session  *model.EvaluationSession `json:"evaluation_session"`
	Summary  model.ComparisonSummary  `json:"summary"`
	Metadata Metadata                 `json:"metadata"`
}

type Metadata struct {
	Endpoint      string    `json:"api_endpoint,omitempty"`
	PromptsTested int       `json:"total_prompts_tested"`
	Questions     int       `json:"total_questions"`
	CompletedAt   time.Time `json:"evaluation_completed_at"`
}

// Save writes the results JSON into dir and returns the file path. The
// file name is derived from the session name and timestamp.
func Save(dir string, results *Results) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	safe := strings.NewReplacer(" ", "_", "/", "_").Replace(results.Session.Name)
	name := fmt.Sprintf("evaluation_%s_%s.json", safe, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}
	return path, nil
}

func Load(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}
	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	if results.Session == nil {
		return nil, fmt.Errorf("results file %s has no evaluation session", path)
	}
	return &results, nil
}
