package questions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prompt-eval/evaluator/internal/model"
)

// LoadFile reads the question set from a JSON file: an array of objects
// with id, question, category, complexity and user_persona fields. Ids
// must be unique and non-empty; missing metadata falls back to defaults.
func LoadFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}

	var raw []model.Question
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse questions file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("questions file %s contains no questions", path)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]model.Question, 0, len(raw))
	for i, q := range raw {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d is missing an id", i)
		}
		if q.Text == "" {
			return nil, fmt.Errorf("question %s has empty text", q.ID)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = struct{}{}

		if q.Category == "" {
			q.Category = "general"
		}
		if q.Complexity == "" {
			q.Complexity = "basic"
		}
		if q.UserPersona == "" {
			q.UserPersona = "general"
		}
		out = append(out, q)
	}
	return out, nil
}
