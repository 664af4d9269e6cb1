package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prompt-eval/evaluator/internal/model"
)

// scriptedProber replays a fixed sequence of classifications.
type scriptedProber struct {
	script []model.Classification
	calls  int
}

func (s *scriptedProber) Probe(ctx context.Context, url string, attempt int) model.LinkValidationResult {
	c := s.script[s.calls]
	s.calls++
	return model.LinkValidationResult{
		URL:            url,
		Classification: c,
		Attempt:        attempt,
	}
}

func TestValidateStopsOnFirstValid(t *testing.T) {
	prober := &scriptedProber{script: []model.Classification{model.ClassificationValid}}
	rc := NewRetryCoordinator(prober, 2, 0, nil)

	res := rc.Validate(context.Background(), "https://example.com")

	assert.Equal(t, model.ClassificationValid, res.Classification)
	assert.Equal(t, 1, prober.calls)
}

func TestValidateRetriesAfterInvalid(t *testing.T) {
	prober := &scriptedProber{script: []model.Classification{
		model.ClassificationInvalid,
		model.ClassificationValid,
	}}
	rc := NewRetryCoordinator(prober, 2, 0, nil)

	res := rc.Validate(context.Background(), "https://example.com")

	assert.Equal(t, model.ClassificationValid, res.Classification)
	assert.Equal(t, 2, res.Attempt)
	assert.Equal(t, 2, prober.calls)
}

func TestValidateKeepsWarningOverLaterInvalid(t *testing.T) {
	prober := &scriptedProber{script: []model.Classification{
		model.ClassificationWarning,
		model.ClassificationInvalid,
	}}
	rc := NewRetryCoordinator(prober, 2, 0, nil)

	res := rc.Validate(context.Background(), "https://example.com")

	assert.Equal(t, model.ClassificationWarning, res.Classification)
	assert.Equal(t, 1, res.Attempt)
}

func TestValidateUpgradesInvalidToWarning(t *testing.T) {
	prober := &scriptedProber{script: []model.Classification{
		model.ClassificationInvalid,
		model.ClassificationWarning,
	}}
	rc := NewRetryCoordinator(prober, 2, 0, nil)

	res := rc.Validate(context.Background(), "https://example.com")

	assert.Equal(t, model.ClassificationWarning, res.Classification)
	assert.Equal(t, 2, res.Attempt)
}

func TestValidateExhaustsBudgetOnInvalid(t *testing.T) {
	prober := &scriptedProber{script: []model.Classification{
		model.ClassificationInvalid,
		model.ClassificationInvalid,
		model.ClassificationInvalid,
	}}
	rc := NewRetryCoordinator(prober, 3, 0, nil)

	res := rc.Validate(context.Background(), "https://example.com")

	assert.Equal(t, model.ClassificationInvalid, res.Classification)
	assert.Equal(t, 3, prober.calls)
}
