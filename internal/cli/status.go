package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the registration window status",
		Long: `Show whether registration has not opened yet, is live or has ended,
with the time remaining until the next boundary.

With --watch the status is polled until registration ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			return watchStatus(ctx, out, watch, interval)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling until registration ends")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Polling interval for --watch")

	return cmd
}

func watchStatus(ctx context.Context, out *Output, watch bool, interval time.Duration) error {
	for {
		var result StatusResult
		if err := client.Get(ctx, "/api/v1/status", &result); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		out.Print(result)

		if !watch || result.Status == StatusEnded {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}
