package assistant

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/pkg/circuitbreaker"
	"github.com/prompt-eval/evaluator/pkg/logger"
	"github.com/prompt-eval/evaluator/pkg/retry"
)

// OpenAIClient evaluates an OpenAI-compatible assistant. The prompt
// version under test lives server-side (or in the model's system prompt
// configuration); this client only ships questions and measures answers.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	timeout  time.Duration
	cb       *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	log      *zap.Logger
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	log := logger.GetLogger()

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	cb := circuitbreaker.New("assistant-openai", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
		Logger:           log,
	})

	log.Info("assistant OpenAI client initialized", zap.String("model", model))

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		cb:      cb,
		retryCfg: retry.Config{
			MaxAttempts:    2,
			InitialDelay:   500 * time.Millisecond,
			MaxDelay:       5 * time.Second,
			Multiplier:     2.0,
			JitterFraction: 0.1,
			Logger:         log,
		},
		log: log,
	}
}

func (c *OpenAIClient) Ask(ctx context.Context, question, conversationID string) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	var text string
	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryCfg, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model: c.model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: question},
				},
				User: conversationID,
			})
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}
			text = resp.Choices[0].Message.Content
			return nil
		})
	})

	latency := time.Since(start)
	if err != nil {
		return Response{Latency: latency}, err
	}
	return Response{Text: text, Latency: latency}, nil
}

func (c *OpenAIClient) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := c.client.ListModels(ctx); err != nil {
		c.log.Warn("assistant connectivity check failed", zap.Error(err))
		return false
	}
	return true
}
