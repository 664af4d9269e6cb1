package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/pkg/circuitbreaker"
	"github.com/prompt-eval/evaluator/pkg/logger"
	"github.com/prompt-eval/evaluator/pkg/retry"
)

// RESTClient talks to the assistant's conversational REST endpoint. The
// wire shape is a followUpText turn list plus a conversation id; the
// answer comes back in the "response" field.
type RESTClient struct {
	endpoint   string
	authHeader string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
	log        *zap.Logger
}

type askPayload struct {
	FollowUpText   string `json:"followUpText"`
	ConversationID string `json:"conversationId"`
}

type askTurn struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

type askReply struct {
	Response string `json:"response"`
}

func NewRESTClient(endpoint, authHeader string, timeout time.Duration) *RESTClient {
	log := logger.GetLogger()

	cb := circuitbreaker.New("assistant", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
		Logger:           log,
	})

	retryCfg := retry.Config{
		MaxAttempts:    2,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         log,
	}

	log.Info("assistant REST client initialized", zap.String("endpoint", endpoint))

	return &RESTClient{
		endpoint:   endpoint,
		authHeader: authHeader,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
		retryCfg:   retryCfg,
		log:        log,
	}
}

func (c *RESTClient) Ask(ctx context.Context, question, conversationID string) (Response, error) {
	start := time.Now()

	var text string
	err := c.cb.Execute(ctx, func() error {
		var retryErr error
		text, retryErr = retry.DoWithResult(ctx, c.retryCfg, func() (string, error) {
			return c.post(ctx, question, conversationID)
		})
		return retryErr
	})

	resp := Response{Text: text, Latency: time.Since(start)}
	if err != nil {
		return Response{Latency: resp.Latency}, err
	}

	c.log.Debug("assistant answered",
		zap.String("conversation_id", conversationID),
		zap.Duration("latency", resp.Latency),
		zap.Int("response_length", len(text)),
	)
	return resp, nil
}

// Check sends a throwaway question and reports whether the endpoint
// answered with a 200.
func (c *RESTClient) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := c.post(ctx, "Hello", "CONNECTION_TEST")
	if err != nil {
		c.log.Warn("assistant connectivity check failed", zap.Error(err))
		return false
	}
	return true
}

func (c *RESTClient) post(ctx context.Context, question, conversationID string) (string, error) {
	turns, err := json.Marshal([]askTurn{{Question: question}})
	if err != nil {
		return "", fmt.Errorf("failed to encode question: %w", err)
	}

	body, err := json.Marshal(askPayload{
		FollowUpText:   string(turns),
		ConversationID: conversationID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("assistant returned HTTP %d: %s", resp.StatusCode, snippet)
	}

	var reply askReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return reply.Response, nil
}
