package links

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/internal/metrics"
	"github.com/prompt-eval/evaluator/internal/model"
)

// Validator produces the final result for one URL.
type Validator interface {
	Validate(ctx context.Context, url string) model.LinkValidationResult
}

// Pool fans a batch of URLs out across a bounded worker set. Workers
// share nothing mutable beyond the job channel and the buffered result
// channel; completion order is irrelevant.
type Pool struct {
	validator Validator
	workers   int
	log       *zap.Logger
}

func NewPool(validator Validator, workers int, log *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{validator: validator, workers: workers, log: log}
}

// ValidateAll validates every URL of one question's batch and returns one
// result per URL, unordered. A failure inside one probe is converted into
// an invalid result and never aborts sibling probes. Empty input returns
// nil without spawning workers.
func (p *Pool) ValidateAll(ctx context.Context, question model.Question, urls []string) []model.LinkValidationResult {
	if len(urls) == 0 {
		return nil
	}

	workers := p.workers
	if workers > len(urls) {
		workers = len(urls)
	}

	jobs := make(chan string)
	results := make(chan model.LinkValidationResult, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				results <- p.validateOne(ctx, u)
			}
		}()
	}

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]model.LinkValidationResult, 0, len(urls))
	for res := range results {
		res.QuestionID = question.ID
		metrics.LinkValidations.WithLabelValues(string(res.Classification)).Inc()
		metrics.ProbeDuration.Observe(float64(res.LatencyMS) / 1000)
		out = append(out, res)
	}

	p.log.Debug("link batch validated",
		zap.String("question_id", question.ID),
		zap.Int("urls", len(urls)),
		zap.Int("workers", workers),
	)
	return out
}

func (p *Pool) validateOne(ctx context.Context, url string) (res model.LinkValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("link validation panicked",
				zap.String("url", url),
				zap.Any("panic", r),
			)
			res = model.LinkValidationResult{
				URL:            url,
				Classification: model.ClassificationInvalid,
				Error:          fmt.Sprintf("validation failed: %v", r),
				FinalURL:       url,
				Attempt:        1,
			}
		}
	}()
	return p.validator.Validate(ctx, url)
}
