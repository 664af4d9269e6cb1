package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prompt-eval/evaluator/internal/evaluator"
	"github.com/prompt-eval/evaluator/internal/gate"
	"github.com/prompt-eval/evaluator/internal/links"
	"github.com/prompt-eval/evaluator/internal/metrics"
	"github.com/prompt-eval/evaluator/internal/model"
	"github.com/prompt-eval/evaluator/internal/questions"
	"github.com/prompt-eval/evaluator/internal/report"
	"github.com/prompt-eval/evaluator/internal/storage/sqlite"
	"github.com/prompt-eval/evaluator/pkg/logger"
)

var (
	questionsPath string
	sessionName   string
	noStore       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full evaluation session across the configured prompt versions",
	RunE:  runEvaluation,
}

func init() {
	runCmd.Flags().StringVarP(&questionsPath, "questions", "q", "questions.json", "question set file")
	runCmd.Flags().StringVar(&sessionName, "name", "", "session name (default: timestamped)")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "skip the sqlite audit trail")
}

func runEvaluation(cmd *cobra.Command, args []string) error {
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	qs, err := questions.LoadFile(questionsPath)
	if err != nil {
		return err
	}

	versions, err := promptVersions()
	if err != nil {
		return err
	}

	client, err := newAssistantClient()
	if err != nil {
		return err
	}

	if sessionName == "" {
		sessionName = "evaluation-" + time.Now().Format("20060102-150405")
	}
	session := model.NewSession(uuid.NewString(), sessionName, "prompt version comparison", qs)

	var store evaluator.Store
	var db *sqlite.Client
	if !noStore {
		db, err = sqlite.NewClient(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("failed to open results database: %w", err)
		}
		defer db.Close()
		if err := db.InitSchema(); err != nil {
			return err
		}
		if err := db.CreateSession(session); err != nil {
			return err
		}
		store = db
	}

	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, log)
	}

	prober := links.NewProber(time.Duration(cfg.Validation.TimeoutSec)*time.Second, log)
	coordinator := links.NewRetryCoordinator(
		prober,
		cfg.Validation.MaxAttempts,
		time.Duration(cfg.Validation.RetryBackoffSec)*time.Second,
		log,
	)
	pool := links.NewPool(coordinator, cfg.Validation.Workers, log)

	orch := evaluator.New(client, pool, gate.NewConsole(), store, evaluator.Config{
		QuestionDelay: time.Duration(cfg.Evaluation.QuestionDelaySec) * time.Second,
		PromptDelay:   time.Duration(cfg.Evaluation.PromptDelaySec) * time.Second,
	}, log)

	if err := orch.Run(ctx, session, versions); err != nil {
		return err
	}

	if db != nil {
		if err := db.MarkFinished(session.ID); err != nil {
			log.Warn("failed to mark session finished", zap.Error(err))
		}
	}

	summary := evaluator.Summarize(session)
	results := &report.Results{
		Session: session,
		Summary: summary,
		Metadata: report.Metadata{
			Endpoint:      cfg.Assistant.Endpoint,
			PromptsTested: len(session.PromptVersions),
			Questions:     len(session.Questions),
			CompletedAt:   time.Now(),
		},
	}

	path, err := report.Save(cfg.Report.OutputDir, results)
	if err != nil {
		return err
	}

	printSummary(results, path)
	return nil
}

func printSummary(results *report.Results, path string) {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Println("\nEVALUATION COMPLETE")

	name := make(map[string]string)
	for _, v := range results.Session.PromptVersions {
		name[v.ID] = v.Name
	}

	for _, m := range results.Summary.Prompts {
		fmt.Printf("  %-24s links %5.1f%% (%d valid / %d warning / %d invalid)  avg %.0f ms\n",
			m.PromptName, m.LinkSuccessRate, m.ValidLinks, m.WarningLinks, m.InvalidLinks, m.AvgLatencyMS)
	}

	if best := name[results.Summary.BestForLinks]; best != "" {
		color.Green("  Best for links:    %s", best)
	}
	if best := name[results.Summary.BestForLatency]; best != "" {
		color.Green("  Fastest responses: %s", best)
	}
	fmt.Printf("\nResults written to %s\n", path)
}

func serveMetrics(addr string, log *zap.Logger) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", metrics.Handler())
	log.Info("metrics listener started", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Warn("metrics listener stopped", zap.Error(err))
	}
}
