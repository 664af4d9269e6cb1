package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the assistant API is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAssistantClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if !client.Check(ctx) {
			color.Red("assistant API is unreachable")
			return fmt.Errorf("connectivity check failed")
		}
		color.Green("assistant API is reachable")
		return nil
	},
}
