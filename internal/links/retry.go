package links

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/internal/model"
)

// Prober performs one validation attempt for one URL.
type Prober interface {
	Probe(ctx context.Context, url string, attempt int) model.LinkValidationResult
}

// RetryCoordinator drives a Prober up to a bounded attempt count and
// keeps the best-ranked result seen across attempts.
type RetryCoordinator struct {
	prober      Prober
	maxAttempts int
	backoff     time.Duration
	log         *zap.Logger
}

func NewRetryCoordinator(prober Prober, maxAttempts int, backoff time.Duration, log *zap.Logger) *RetryCoordinator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RetryCoordinator{prober: prober, maxAttempts: maxAttempts, backoff: backoff, log: log}
}

// Validate probes the URL until a valid result appears or the attempt
// budget runs out. A warning held from an earlier attempt is never
// displaced by a later invalid. The first attempt always yields a result,
// so Validate always returns one.
func (r *RetryCoordinator) Validate(ctx context.Context, url string) model.LinkValidationResult {
	var best model.LinkValidationResult
	held := false

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		res := r.prober.Probe(ctx, url, attempt)
		if res.Classification == model.ClassificationValid {
			return res
		}

		if !held || res.Classification.Rank() > best.Classification.Rank() {
			best = res
			held = true
		}

		// Only a hard invalid is worth waiting on; warnings stand until
		// a valid displaces them.
		if attempt < r.maxAttempts && res.Classification == model.ClassificationInvalid && r.backoff > 0 {
			r.log.Debug("retrying link after backoff",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", r.backoff),
			)
			select {
			case <-ctx.Done():
				return best
			case <-time.After(r.backoff):
			}
		}
	}
	return best
}
