package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prompt-eval/evaluator/internal/report"
	"github.com/prompt-eval/evaluator/pkg/logger"
)

var (
	serveInput string
	serveAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a saved results file as a live dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := report.Load(serveInput)
		if err != nil {
			return err
		}

		srv := report.NewServer(results)

		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-done
			logger.Info("shutting down dashboard")
			srv.Shutdown()
		}()

		return srv.Listen(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveInput, "input", "i", "", "results JSON file (required)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.MarkFlagRequired("input")
}
