package assistant

import (
	"context"
	"time"
)

// Response is one answer from the assistant under test. Latency is
// wall-clock time for the whole call and is populated even when the call
// failed.
type Response struct {
	Text    string
	Latency time.Duration
}

// Client is the question-asking API. Implementations keep at most one
// call in flight per invocation and enforce their own timeout.
type Client interface {
	// Ask sends one question within the given conversation.
	Ask(ctx context.Context, question, conversationID string) (Response, error)
	// Check reports whether the API is reachable; called once before a
	// session starts.
	Check(ctx context.Context) bool
}
