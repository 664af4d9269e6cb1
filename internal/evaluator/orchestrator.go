package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/internal/assistant"
	"github.com/prompt-eval/evaluator/internal/links"
	"github.com/prompt-eval/evaluator/internal/metrics"
	"github.com/prompt-eval/evaluator/internal/model"
)

// ErrUnreachable aborts a session before any version runs.
var ErrUnreachable = errors.New("assistant API is unreachable")

// Validator is the link validation pipeline for one question's batch.
type Validator interface {
	ValidateAll(ctx context.Context, question model.Question, urls []string) []model.LinkValidationResult
}

// Store is the write-append persistence adapter for raw results. It is an
// audit trail, not the source of truth: aggregation runs over the data
// the orchestrator collected in memory.
type Store interface {
	SaveResponse(sessionID, promptID string, rec model.ResponseRecord) error
	SaveLinkResult(sessionID, promptID string, res model.LinkValidationResult) error
}

type Config struct {
	// QuestionDelay throttles consecutive questions within one version.
	QuestionDelay time.Duration
	// PromptDelay separates one version's completion from the next gate.
	PromptDelay time.Duration
}

// Orchestrator sequences question-asking and link validation across
// prompt versions: strictly one question at a time, one version at a
// time, with an operator gate before each version.
type Orchestrator struct {
	client    assistant.Client
	validator Validator
	gate      Gate
	store     Store // optional
	cfg       Config
	log       *zap.Logger
}

func New(client assistant.Client, validator Validator, gate Gate, store Store, cfg Config, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		client:    client,
		validator: validator,
		gate:      gate,
		store:     store,
		cfg:       cfg,
		log:       log,
	}
}

// Run evaluates the given prompt versions against the session's question
// set. A failed pre-flight connectivity check aborts the whole session
// before anything is recorded. Skipped versions leave no trace in the
// session; an abort directive ends the run cleanly, keeping every
// evaluation recorded so far.
func (o *Orchestrator) Run(ctx context.Context, session *model.EvaluationSession, versions []model.PromptVersion) error {
	if !o.client.Check(ctx) {
		return ErrUnreachable
	}

	o.log.Info("evaluation session started",
		zap.String("session_id", session.ID),
		zap.String("name", session.Name),
		zap.Int("questions", len(session.Questions)),
		zap.Int("prompt_versions", len(versions)),
	)

	for i, version := range versions {
		directive, err := o.gate.NextDirective(version, i == 0)
		if err != nil {
			return fmt.Errorf("gate failed: %w", err)
		}

		switch directive {
		case Skip:
			o.log.Info("prompt version skipped", zap.String("prompt", version.Name))
			continue
		case Abort:
			o.log.Info("evaluation aborted by operator",
				zap.Int("versions_recorded", len(session.PromptVersions)),
			)
			session.Finished = true
			return nil
		}

		eval := o.runVersion(ctx, session, version)
		session.PromptVersions = append(session.PromptVersions, version)
		session.Evaluations[version.ID] = eval
		metrics.PromptVersionsEvaluated.Inc()

		o.log.Info("prompt version recorded",
			zap.String("prompt", version.Name),
			zap.Int("total_links", eval.TotalLinks),
			zap.Int("invalid_links", eval.InvalidLinks),
			zap.Float64("avg_latency_ms", eval.AvgLatencyMS),
		)

		if i < len(versions)-1 {
			o.sleep(ctx, o.cfg.PromptDelay)
		}
	}

	session.Finished = true
	return nil
}

// runVersion asks every question in session order under one prompt
// version. A failed API call is recorded and the loop keeps going: the
// remaining questions still run.
func (o *Orchestrator) runVersion(ctx context.Context, session *model.EvaluationSession, version model.PromptVersion) *model.PerPromptEvaluation {
	results := make([]model.QuestionResult, 0, len(session.Questions))

	for i, question := range session.Questions {
		rec := o.askQuestion(ctx, question)
		o.persistResponse(session.ID, version.ID, rec)

		var linkResults []model.LinkValidationResult
		if rec.Status == model.StatusSuccess {
			urls := links.Extract(rec.Response)
			linkResults = o.validator.ValidateAll(ctx, question, urls)
			for _, lr := range linkResults {
				o.persistLinkResult(session.ID, version.ID, lr)
			}
		}

		results = append(results, model.QuestionResult{
			Question: question,
			Record:   rec,
			Links:    linkResults,
		})

		if i < len(session.Questions)-1 {
			o.sleep(ctx, o.cfg.QuestionDelay)
		}
	}

	return Aggregate(version, results)
}

func (o *Orchestrator) askQuestion(ctx context.Context, question model.Question) model.ResponseRecord {
	conversationID := fmt.Sprintf("EVAL_%s_%d", question.ID, time.Now().Unix())

	resp, err := o.client.Ask(ctx, question.Text, conversationID)

	rec := model.ResponseRecord{
		ID:             uuid.NewString(),
		Question:       question,
		LatencyMS:      resp.Latency.Milliseconds(),
		Timestamp:      time.Now(),
		ConversationID: conversationID,
	}
	if err != nil {
		rec.Status = model.StatusError
		rec.Error = err.Error()
		o.log.Warn("question failed",
			zap.String("question_id", question.ID),
			zap.Error(err),
		)
	} else {
		rec.Status = model.StatusSuccess
		rec.Response = resp.Text
	}

	metrics.QuestionsAsked.WithLabelValues(string(rec.Status)).Inc()
	metrics.AskDuration.Observe(resp.Latency.Seconds())
	return rec
}

// Persistence faults are logged, never fatal: the in-memory session is
// authoritative.
func (o *Orchestrator) persistResponse(sessionID, promptID string, rec model.ResponseRecord) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveResponse(sessionID, promptID, rec); err != nil {
		o.log.Warn("failed to persist response record", zap.Error(err))
	}
}

func (o *Orchestrator) persistLinkResult(sessionID, promptID string, res model.LinkValidationResult) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveLinkResult(sessionID, promptID, res); err != nil {
		o.log.Warn("failed to persist link result", zap.Error(err))
	}
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
