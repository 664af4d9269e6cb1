package evaluator

import (
	"math"

	"github.com/prompt-eval/evaluator/internal/model"
)

// Summarize builds the cross-prompt comparison for a session. Winners are
// found in a single scan over the completed versions in evaluation order,
// replacing the current best only on strict improvement, so ties resolve
// to the earliest-evaluated version.
func Summarize(session *model.EvaluationSession) model.ComparisonSummary {
	var summary model.ComparisonSummary

	bestLinkRate := -1.0
	bestLatency := math.Inf(1)

	for _, version := range session.PromptVersions {
		eval, ok := session.Evaluations[version.ID]
		if !ok {
			continue
		}

		m := model.PromptMetrics{
			PromptID:                  version.ID,
			PromptName:                version.Name,
			LinkSuccessRate:           eval.LinkSuccessRate(),
			TotalLinks:                eval.TotalLinks,
			ValidLinks:                eval.ValidLinks,
			WarningLinks:              eval.WarningLinks,
			InvalidLinks:              eval.InvalidLinks,
			QuestionsWithInvalidLinks: eval.QuestionsWithInvalidLinks,
			AvgLatencyMS:              eval.AvgLatencyMS,
			SuccessfulCalls:           eval.SuccessfulResponses,
			FailedCalls:               eval.FailedResponses,
		}
		summary.Prompts = append(summary.Prompts, m)

		if m.LinkSuccessRate > bestLinkRate {
			bestLinkRate = m.LinkSuccessRate
			summary.BestForLinks = version.ID
		}
		if eval.AvgLatencyMS < bestLatency {
			bestLatency = eval.AvgLatencyMS
			summary.BestForLatency = version.ID
		}
	}

	return summary
}
