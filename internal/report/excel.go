package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/prompt-eval/evaluator/internal/model"
)

// WriteWorkbook renders a side-by-side comparison workbook: a Summary
// sheet with the per-prompt metrics table, a Comparison sheet with one
// row per question and one response/links column pair per prompt, and a
// flat Links sheet for auditing individual probes.
func WriteWorkbook(path string, results *Results) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, results); err != nil {
		return err
	}
	if err := writeComparisonSheet(f, results); err != nil {
		return err
	}
	if err := writeLinksSheet(f, results); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, results *Results) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"Prompt", "Version", "Link Success Rate (%)", "Total Links",
		"Valid", "Warning", "Invalid", "Questions w/ Invalid Links",
		"Avg Response (ms)", "API Success", "API Failed",
	}
	if err := setRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}

	versionByID := make(map[string]model.PromptVersion)
	for _, v := range results.Session.PromptVersions {
		versionByID[v.ID] = v
	}

	row := 2
	for _, m := range results.Summary.Prompts {
		cells := []interface{}{
			m.PromptName,
			versionByID[m.PromptID].Version,
			m.LinkSuccessRate,
			m.TotalLinks,
			m.ValidLinks,
			m.WarningLinks,
			m.InvalidLinks,
			m.QuestionsWithInvalidLinks,
			m.AvgLatencyMS,
			m.SuccessfulCalls,
			m.FailedCalls,
		}
		if err := setRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}

	row++
	bestLinks := versionByID[results.Summary.BestForLinks].Name
	bestLatency := versionByID[results.Summary.BestForLatency].Name
	if err := setRow(f, sheet, row, toCells([]string{"Best for links", bestLinks})); err != nil {
		return err
	}
	if err := setRow(f, sheet, row+1, toCells([]string{"Fastest responses", bestLatency})); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", "B", 28)
}

func writeComparisonSheet(f *excelize.File, results *Results) error {
	const sheet = "Comparison"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	session := results.Session

	headers := []string{"Question ID", "Question", "Category"}
	for _, v := range session.PromptVersions {
		headers = append(headers, v.Name+" response", v.Name+" links")
	}
	if err := setRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}

	// QuestionResults per version keyed by question id; every version ran
	// the same question set.
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

	for i, q := range session.Questions {
		cells := []interface{}{q.ID, q.Text, q.Category}
		for _, v := range session.PromptVersions {
			qr := perVersion[v.ID][q.ID]
			cells = append(cells, responseCell(qr.Record), linksCell(qr.Links))
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 50); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "D", last, 60)
}

func writeLinksSheet(f *excelize.File, results *Results) error {
	const sheet = "Links"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"Prompt", "Question ID", "URL", "Classification", "Status Code",
		"Method", "Redirects", "Final URL", "Page Title", "Error",
	}
	if err := setRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}

	row := 2
	for _, v := range results.Session.PromptVersions {
		eval := results.Session.Evaluations[v.ID]
		if eval == nil {
			continue
		}
		for _, qr := range eval.Results {
			for _, link := range qr.Links {
				cells := []interface{}{
					v.Name,
					link.QuestionID,
					link.URL,
					string(link.Classification),
					link.StatusCode,
					link.Method,
					link.Redirects,
					link.FinalURL,
					link.PageTitle,
					link.Error,
				}
				if err := setRow(f, sheet, row, cells); err != nil {
					return err
				}
				row++
			}
		}
	}

	return f.SetColWidth(sheet, "C", "C", 60)
}

func responseCell(rec model.ResponseRecord) string {
	if rec.Status == model.StatusError {
		return "ERROR: " + rec.Error
	}
	return rec.Response
}

func linksCell(links []model.LinkValidationResult) string {
	if len(links) == 0 {
		return ""
	}
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, fmt.Sprintf("[%s] %s", l.Classification, l.URL))
	}
	return strings.Join(lines, "\n")
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
