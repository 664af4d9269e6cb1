package model

import "time"

// Classification is the three-level outcome of a link probe.
type Classification string

const (
	ClassificationValid   Classification = "valid"
	ClassificationWarning Classification = "warning"
	ClassificationInvalid Classification = "invalid"
)

// Rank imposes a total order over classifications: valid > warning > invalid.
// The retry coordinator keeps the maximum-ranked result across attempts.
func (c Classification) Rank() int {
	switch c {
	case ClassificationValid:
		return 2
	case ClassificationWarning:
		return 1
	default:
		return 0
	}
}

type ResponseStatus string

const (
	StatusSuccess ResponseStatus = "success"
	StatusError   ResponseStatus = "error"
)

// Question is one entry of the fixed question set. Immutable after load.
type Question struct {
	ID          string `json:"id"`
	Text        string `json:"question"`
	Category    string `json:"category"`
	Complexity  string `json:"complexity"`
	UserPersona string `json:"user_persona"`
}

// PromptVersion identifies one configuration of the assistant under test.
type PromptVersion struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResponseRecord is the outcome of asking one question under one prompt
// version. A Status of StatusError implies an empty Response and a
// populated Error.
type ResponseRecord struct {
	ID             string         `json:"id"`
	Question       Question       `json:"question"`
	Response       string         `json:"response"`
	LatencyMS      int64          `json:"response_time_ms"`
	Timestamp      time.Time      `json:"timestamp"`
	Status         ResponseStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
	ConversationID string         `json:"conversation_id"`
}

// LinkValidationResult is the classified outcome of probing one URL.
// QuestionID ties the result back to the question whose response
// contained the URL; it is set when the result is collected.
type LinkValidationResult struct {
	QuestionID     string         `json:"question_id"`
	URL            string         `json:"url"`
	Classification Classification `json:"status"`
	StatusCode     int            `json:"status_code,omitempty"`
	Error          string         `json:"error,omitempty"`
	LatencyMS      int64          `json:"response_time_ms"`
	FinalURL       string         `json:"final_url"`
	Redirects      int            `json:"redirects"`
	Method         string         `json:"method_used,omitempty"`
	Attempt        int            `json:"attempt"`
	PageTitle      string         `json:"page_title,omitempty"`
}

// QuestionResult bundles one response with the validation results of the
// links it contained.
type QuestionResult struct {
	Question Question               `json:"question"`
	Record   ResponseRecord         `json:"record"`
	Links    []LinkValidationResult `json:"links"`
}

// PerPromptEvaluation aggregates everything recorded for one prompt
// version. Built once by a fold over the completed QuestionResults,
// immutable afterwards.
type PerPromptEvaluation struct {
	PromptVersion             PromptVersion    `json:"prompt_version"`
	Results                   []QuestionResult `json:"results"`
	TotalLinks                int              `json:"total_links"`
	ValidLinks                int              `json:"valid_links"`
	WarningLinks              int              `json:"warning_links"`
	InvalidLinks              int              `json:"invalid_links"`
	QuestionsWithInvalidLinks int              `json:"questions_with_invalid_links"`
	AvgLatencyMS              float64          `json:"avg_response_time_ms"`
	SuccessfulResponses       int              `json:"successful_responses"`
	FailedResponses           int              `json:"failed_responses"`
}

// LinkSuccessRate is the percentage of probed links that were valid or
// warning. A version that emitted no links scores 100: silence is neither
// penalized nor rewarded relative to a version whose links all resolve.
func (e *PerPromptEvaluation) LinkSuccessRate() float64 {
	if e.TotalLinks == 0 {
		return 100
	}
	return float64(e.ValidLinks+e.WarningLinks) / float64(e.TotalLinks) * 100
}

// EvaluationSession is one complete evaluation run. PromptVersions holds
// the versions actually evaluated, in completion order; versions skipped
// at the gate never appear.
type EvaluationSession struct {
	ID             string                          `json:"id"`
	Name           string                          `json:"name"`
	Description    string                          `json:"description"`
	CreatedAt      time.Time                       `json:"created_at"`
	Questions      []Question                      `json:"questions"`
	PromptVersions []PromptVersion                 `json:"prompt_versions"`
	Evaluations    map[string]*PerPromptEvaluation `json:"evaluations"`
	Finished       bool                            `json:"finished"`
}

func NewSession(id, name, description string, questions []Question) *EvaluationSession {
	return &EvaluationSession{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
		Questions:   questions,
		Evaluations: make(map[string]*PerPromptEvaluation),
	}
}

// PromptMetrics is one row of the cross-prompt comparison table.
type PromptMetrics struct {
	PromptID                  string  `json:"prompt_id"`
	PromptName                string  `json:"prompt_name"`
	LinkSuccessRate           float64 `json:"link_success_rate"`
	TotalLinks                int     `json:"total_links"`
	ValidLinks                int     `json:"valid_links"`
	WarningLinks              int     `json:"warning_links"`
	InvalidLinks              int     `json:"invalid_links"`
	QuestionsWithInvalidLinks int     `json:"questions_with_invalid_links"`
	AvgLatencyMS              float64 `json:"avg_response_time_ms"`
	SuccessfulCalls           int     `json:"successful_api_calls"`
	FailedCalls               int     `json:"failed_api_calls"`
}

// ComparisonSummary is a read-only view over a finished session.
// BestForLinks and BestForLatency hold prompt version ids; ties go to the
// earliest-evaluated version.
type ComparisonSummary struct {
	Prompts        []PromptMetrics `json:"prompt_comparison"`
	BestForLinks   string          `json:"best_prompt_for_links"`
	BestForLatency string          `json:"best_prompt_for_response_time"`
}
