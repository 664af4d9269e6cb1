package evaluator

import "github.com/prompt-eval/evaluator/internal/model"

// Aggregate folds the completed results of one prompt version into its
// evaluation. It is a pure function of its inputs: no counters are
// threaded through the question loop, so the aggregate is insensitive to
// the order results were produced in.
func Aggregate(version model.PromptVersion, results []model.QuestionResult) *model.PerPromptEvaluation {
	eval := &model.PerPromptEvaluation{
		PromptVersion: version,
		Results:       results,
	}

	var totalLatency int64
	for _, r := range results {
		totalLatency += r.Record.LatencyMS
		if r.Record.Status == model.StatusSuccess {
			eval.SuccessfulResponses++
		} else {
			eval.FailedResponses++
		}

		invalidHere := 0
		for _, link := range r.Links {
			eval.TotalLinks++
			switch link.Classification {
			case model.ClassificationValid:
				eval.ValidLinks++
			case model.ClassificationWarning:
				eval.WarningLinks++
			default:
				eval.InvalidLinks++
				invalidHere++
			}
		}
		if invalidHere > 0 {
			eval.QuestionsWithInvalidLinks++
		}
	}

	if len(results) > 0 {
		eval.AvgLatencyMS = float64(totalLatency) / float64(len(results))
	}
	return eval
}
