package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prompt-eval/evaluator/internal/model"
)

func link(c model.Classification) model.LinkValidationResult {
	return model.LinkValidationResult{Classification: c}
}

func TestAggregateCountsLinksAndResponses(t *testing.T) {
	version := model.PromptVersion{ID: "p1", Name: "baseline"}
	results := []model.QuestionResult{
		{
			Record: model.ResponseRecord{Status: model.StatusSuccess, LatencyMS: 100},
			Links: []model.LinkValidationResult{
				link(model.ClassificationValid),
				link(model.ClassificationWarning),
				link(model.ClassificationInvalid),
			},
		},
		{
			Record: model.ResponseRecord{Status: model.StatusSuccess, LatencyMS: 300},
			Links: []model.LinkValidationResult{
				link(model.ClassificationValid),
			},
		},
		{
			Record: model.ResponseRecord{Status: model.StatusError, LatencyMS: 50},
		},
	}

	eval := Aggregate(version, results)

	assert.Equal(t, 4, eval.TotalLinks)
	assert.Equal(t, 2, eval.ValidLinks)
	assert.Equal(t, 1, eval.WarningLinks)
	assert.Equal(t, 1, eval.InvalidLinks)
	assert.Equal(t, eval.TotalLinks, eval.ValidLinks+eval.WarningLinks+eval.InvalidLinks)
	assert.Equal(t, 1, eval.QuestionsWithInvalidLinks)
	assert.Equal(t, 2, eval.SuccessfulResponses)
	assert.Equal(t, 1, eval.FailedResponses)
	assert.InDelta(t, 150.0, eval.AvgLatencyMS, 0.001)
	assert.InDelta(t, 75.0, eval.LinkSuccessRate(), 0.001)
}

func TestAggregateEmptyResults(t *testing.T) {
	eval := Aggregate(model.PromptVersion{ID: "p1"}, nil)

	assert.Zero(t, eval.TotalLinks)
	assert.Zero(t, eval.AvgLatencyMS)
	assert.Equal(t, 100.0, eval.LinkSuccessRate())
}

func TestAggregateQuestionsWithInvalidCountsQuestionsNotLinks(t *testing.T) {
	results := []model.QuestionResult{
		{
			Record: model.ResponseRecord{Status: model.StatusSuccess},
			Links: []model.LinkValidationResult{
				link(model.ClassificationInvalid),
				link(model.ClassificationInvalid),
				link(model.ClassificationInvalid),
			},
		},
	}

	eval := Aggregate(model.PromptVersion{ID: "p1"}, results)

	assert.Equal(t, 3, eval.InvalidLinks)
	assert.Equal(t, 1, eval.QuestionsWithInvalidLinks)
}
