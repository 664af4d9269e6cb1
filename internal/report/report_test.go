package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/prompt-eval/evaluator/internal/model"
)

func fixtureResults() *Results {
	questions := []model.Question{
		{ID: "q1", Text: "Where are the docs?", Category: "docs"},
	}
	session := model.NewSession("s1", "workbook test", "", questions)
	session.Finished = true

	good := model.PromptVersion{ID: "good", Name: "Good Links", Version: "1.0"}
	bad := model.PromptVersion{ID: "bad", Name: "Broken Links", Version: "2.0"}
	session.PromptVersions = []model.PromptVersion{good, bad}

	session.Evaluations["good"] = &model.PerPromptEvaluation{
		PromptVersion: good,
		Results: []model.QuestionResult{{
			Question: questions[0],
			Record: model.ResponseRecord{
				Question: questions[0],
				Response: "See https://example.com/docs",
				Status:   model.StatusSuccess,
			},
			Links: []model.LinkValidationResult{{
				QuestionID:     "q1",
				URL:            "https://example.com/docs",
				Classification: model.ClassificationValid,
				StatusCode:     200,
				Method:         "HEAD",
				FinalURL:       "https://example.com/docs",
			}},
		}},
		TotalLinks: 1, ValidLinks: 1,
		SuccessfulResponses: 1,
		AvgLatencyMS:        120,
	}
	session.Evaluations["bad"] = &model.PerPromptEvaluation{
		PromptVersion: bad,
		Results: []model.QuestionResult{{
			Question: questions[0],
			Record: model.ResponseRecord{
				Question: questions[0],
				Status:   model.StatusError,
				Error:    "assistant returned HTTP 502",
			},
		}},
		FailedResponses: 1,
		AvgLatencyMS:    40,
	}

	return &Results{
		Session: session,
		Summary: model.ComparisonSummary{
			Prompts: []model.PromptMetrics{
				{PromptID: "good", PromptName: "Good Links", LinkSuccessRate: 100, TotalLinks: 1, ValidLinks: 1, AvgLatencyMS: 120, SuccessfulCalls: 1},
				{PromptID: "bad", PromptName: "Broken Links", LinkSuccessRate: 100, AvgLatencyMS: 40, FailedCalls: 1},
			},
			BestForLinks:   "good",
			BestForLatency: "bad",
		},
		Metadata: Metadata{
			Endpoint:      "https://assistant.example.com/ask",
			PromptsTested: 2,
			Questions:     1,
			CompletedAt:   time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	results := fixtureResults()

	path, err := Save(dir, results)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "evaluation_workbook_test")

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, results.Session.ID, loaded.Session.ID)
	assert.Equal(t, results.Summary.BestForLinks, loaded.Summary.BestForLinks)
	require.Contains(t, loaded.Session.Evaluations, "good")
	assert.Equal(t, 1, loaded.Session.Evaluations["good"].ValidLinks)
}

func TestLoadRejectsSessionlessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"summary": {}}`), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "no evaluation session")
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, fixtureResults()))

	html := buf.String()
	assert.Contains(t, html, "workbook test")
	assert.Contains(t, html, "Good Links")
	assert.Contains(t, html, "Where are the docs?")
	assert.Contains(t, html, "https://example.com/docs")
	assert.Contains(t, html, "Request failed: assistant returned HTTP 502")
	assert.Contains(t, html, `badge valid`)
}

func TestRenderHTMLNilSession(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHTML(&buf, &Results{})
	assert.Error(t, err)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.xlsx")
	require.NoError(t, WriteWorkbook(path, fixtureResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Comparison", "Links"}, f.GetSheetList())

	name, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Good Links", name)

	question, err := f.GetCellValue("Comparison", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Where are the docs?", question)

	url, err := f.GetCellValue("Links", "C2")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", url)
}
