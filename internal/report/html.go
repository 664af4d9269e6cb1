package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/prompt-eval/evaluator/internal/model"
)

// RenderHTML writes a self-contained dashboard page: the comparison
// summary up top, then every question with each prompt's response and
// link verdicts side by side.
func RenderHTML(w io.Writer, results *Results) error {
	page, err := buildPage(results)
	if err != nil {
		return err
	}
	if err := dashboardTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

type dashboardPage struct {
	SessionName    string
	CompletedAt    string
	BestForLinks   string
	BestForLatency string
	Metrics        []model.PromptMetrics
	Questions      []questionView
}

type questionView struct {
	ID      string
	Text    string
	Answers []answerView
}

type answerView struct {
	PromptName string
	Failed     bool
	Response   string
	Error      string
	Links      []model.LinkValidationResult
}

func buildPage(results *Results) (*dashboardPage, error) {
	if results == nil || results.Session == nil {
		return nil, fmt.Errorf("results contain no session")
	}
	session := results.Session

	versionName := make(map[string]string, len(session.PromptVersions))
	for _, v := range session.PromptVersions {
		versionName[v.ID] = v.Name
	}

	page := &dashboardPage{
		SessionName:    session.Name,
		CompletedAt:    results.Metadata.CompletedAt.Format("2006-01-02 15:04:05"),
		BestForLinks:   versionName[results.Summary.BestForLinks],
		BestForLatency: versionName[results.Summary.BestForLatency],
		Metrics:        results.Summary.Prompts,
	}

	perVersion := make(map[string]map[string]model.QuestionResult)
	for _, v := range session.PromptVersions {
		eval := session.Evaluations[v.ID]
		if eval == nil {
			continue
		}
		byQuestion := make(map[string]model.QuestionResult, len(eval.Results))
		for _, qr := range eval.Results {
			byQuestion[qr.Question.ID] = qr
		}
		perVersion[v.ID] = byQuestion
	}

	for _, q := range session.Questions {
		view := questionView{ID: q.ID, Text: q.Text}
		for _, v := range session.PromptVersions {
			qr := perVersion[v.ID][q.ID]
			view.Answers = append(view.Answers, answerView{
				PromptName: v.Name,
				Failed:     qr.Record.Status == model.StatusError,
				Response:   qr.Record.Response,
				Error:      qr.Record.Error,
				Links:      qr.Links,
			})
		}
		page.Questions = append(page.Questions, view)
	}

	return page, nil
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Prompt Evaluation — {{.SessionName}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem; color: #1c2733; background: #f5f7fa; }
  h1 { font-size: 1.5rem; }
  .meta { color: #5b6b7c; margin-bottom: 1.5rem; }
  table { border-collapse: collapse; background: #fff; margin-bottom: 2rem; width: 100%; }
  th, td { border: 1px solid #d8dee6; padding: 0.5rem 0.75rem; text-align: left; font-size: 0.9rem; }
  th { background: #eef2f7; }
  .winner { background: #e8f6ee; }
  .question { background: #fff; border: 1px solid #d8dee6; border-radius: 6px; padding: 1rem; margin-bottom: 1rem; }
  .question h3 { margin-top: 0; }
  .answers { display: flex; gap: 1rem; flex-wrap: wrap; }
  .answer { flex: 1 1 20rem; border: 1px solid #e3e8ef; border-radius: 4px; padding: 0.75rem; }
  .answer h4 { margin: 0 0 0.5rem 0; }
  .response { white-space: pre-wrap; font-size: 0.85rem; max-height: 16rem; overflow-y: auto; }
  .error { color: #b3261e; }
  .links li { font-size: 0.85rem; margin-bottom: 0.25rem; word-break: break-all; }
  .badge { display: inline-block; padding: 0 0.4rem; border-radius: 3px; font-size: 0.75rem; color: #fff; margin-right: 0.4rem; }
  .badge.valid { background: #2e8b57; }
  .badge.warning { background: #c98a00; }
  .badge.invalid { background: #b3261e; }
</style>
</head>
<body>
<h1>Prompt Evaluation — {{.SessionName}}</h1>
<p class="meta">Completed {{.CompletedAt}} · Best for links: <strong>{{.BestForLinks}}</strong> · Fastest responses: <strong>{{.BestForLatency}}</strong></p>

<table>
  <tr>
    <th>Prompt</th><th>Link Success (%)</th><th>Links</th><th>Valid</th><th>Warning</th><th>Invalid</th>
    <th>Questions w/ Invalid</th><th>Avg Response (ms)</th><th>API Success</th><th>API Failed</th>
  </tr>
  {{range .Metrics}}
  <tr>
    <td>{{.PromptName}}</td>
    <td>{{printf "%.1f" .LinkSuccessRate}}</td>
    <td>{{.TotalLinks}}</td>
    <td>{{.ValidLinks}}</td>
    <td>{{.WarningLinks}}</td>
    <td>{{.InvalidLinks}}</td>
    <td>{{.QuestionsWithInvalidLinks}}</td>
    <td>{{printf "%.0f" .AvgLatencyMS}}</td>
    <td>{{.SuccessfulCalls}}</td>
    <td>{{.FailedCalls}}</td>
  </tr>
  {{end}}
</table>

{{range .Questions}}
<div class="question">
  <h3>{{.ID}}: {{.Text}}</h3>
  <div class="answers">
    {{range .Answers}}
    <div class="answer">
      <h4>{{.PromptName}}</h4>
      {{if .Failed}}
      <p class="error">Request failed: {{.Error}}</p>
      {{else}}
      <div class="response">{{.Response}}</div>
      {{end}}
      {{if .Links}}
      <ul class="links">
        {{range .Links}}
        <li><span class="badge {{.Classification}}">{{.Classification}}</span>{{.URL}}{{if .StatusCode}} ({{.StatusCode}}){{end}}</li>
        {{end}}
      </ul>
      {{end}}
    </div>
    {{end}}
  </div>
</div>
{{end}}
</body>
</html>
`))
