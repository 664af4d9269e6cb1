package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-eval/evaluator/internal/model"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.InitSchema())
	return c
}

func TestResponseRoundTrip(t *testing.T) {
	c := testClient(t)

	session := model.NewSession("s1", "round trip", "", []model.Question{
		{ID: "q1", Text: "Where are the docs?", Category: "docs", Complexity: "basic"},
	})
	require.NoError(t, c.CreateSession(session))

	rec := model.ResponseRecord{
		ID:             "r1",
		Question:       session.Questions[0],
		Response:       "See https://example.com/docs",
		LatencyMS:      120,
		Timestamp:      time.Now().Truncate(time.Second),
		Status:         model.StatusSuccess,
		ConversationID: "EVAL_q1_1",
	}
	require.NoError(t, c.SaveResponse("s1", "p1", rec))

	failing := model.ResponseRecord{
		ID:             "r2",
		Question:       session.Questions[0],
		LatencyMS:      40,
		Timestamp:      time.Now().Truncate(time.Second),
		Status:         model.StatusError,
		Error:          "assistant returned HTTP 502",
		ConversationID: "EVAL_q1_2",
	}
	require.NoError(t, c.SaveResponse("s1", "p1", failing))

	got, err := c.ListResponses("s1", "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, rec.Question.Text, got[0].Question.Text)
	assert.Equal(t, rec.Response, got[0].Response)
	assert.Equal(t, rec.LatencyMS, got[0].LatencyMS)
	assert.Equal(t, model.StatusSuccess, got[0].Status)
	assert.Equal(t, rec.ConversationID, got[0].ConversationID)

	assert.Equal(t, model.StatusError, got[1].Status)
	assert.Equal(t, "assistant returned HTTP 502", got[1].Error)
}

func TestListResponsesFiltersByPrompt(t *testing.T) {
	c := testClient(t)

	session := model.NewSession("s1", "filtering", "", []model.Question{{ID: "q1", Text: "hi"}})
	require.NoError(t, c.CreateSession(session))

	rec := model.ResponseRecord{ID: "r1", Question: session.Questions[0], Response: "a", Status: model.StatusSuccess, Timestamp: time.Now()}
	require.NoError(t, c.SaveResponse("s1", "p1", rec))
	rec.ID = "r2"
	require.NoError(t, c.SaveResponse("s1", "p2", rec))

	got, err := c.ListResponses("s1", "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}

func TestSaveLinkResult(t *testing.T) {
	c := testClient(t)

	session := model.NewSession("s1", "links", "", []model.Question{{ID: "q1", Text: "hi"}})
	require.NoError(t, c.CreateSession(session))

	res := model.LinkValidationResult{
		QuestionID:     "q1",
		URL:            "https://example.com/docs",
		Classification: model.ClassificationWarning,
		StatusCode:     429,
		Error:          "rate limited (429) by target",
		LatencyMS:      80,
		FinalURL:       "https://example.com/docs",
		Method:         "HEAD",
		Attempt:        2,
	}
	require.NoError(t, c.SaveLinkResult("s1", "p1", res))
}

func TestMarkFinished(t *testing.T) {
	c := testClient(t)

	session := model.NewSession("s1", "finish", "", []model.Question{{ID: "q1", Text: "hi"}})
	require.NoError(t, c.CreateSession(session))
	require.NoError(t, c.MarkFinished("s1"))
}
