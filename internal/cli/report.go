package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prompt-eval/evaluator/internal/report"
)

var (
	reportInput   string
	reportFormats []string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a saved results file as an Excel workbook and HTML dashboard",
	RunE:  renderReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportInput, "input", "i", "", "results JSON file (required)")
	reportCmd.Flags().StringSliceVar(&reportFormats, "format", []string{"xlsx", "html"}, "output formats: xlsx, html")
	reportCmd.MarkFlagRequired("input")
}

func renderReport(cmd *cobra.Command, args []string) error {
	results, err := report.Load(reportInput)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(reportInput, filepath.Ext(reportInput))

	for _, format := range reportFormats {
		switch format {
		case "xlsx":
			path := base + ".xlsx"
			if err := report.WriteWorkbook(path, results); err != nil {
				return err
			}
			fmt.Printf("workbook written to %s\n", path)
		case "html":
			path := base + ".html"
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := report.RenderHTML(f, results); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("dashboard written to %s\n", path)
		default:
			return fmt.Errorf("unknown report format %q", format)
		}
	}
	return nil
}
