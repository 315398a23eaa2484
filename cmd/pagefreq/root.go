package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/pagefreq/internal/app"
)

// NewRootCmd creates the root command for pagefreq.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagefreq",
		Short: "Word frequency charts for Chinese web pages",
		Long: `pagefreq downloads a web page, decodes it using the charset the server
declares (or a detected one), extracts its visible text, splits it into
words and keeps the Chinese ones. The most frequent words are rendered as
an HTML chart, a text or Markdown ranking, or a PDF report.

Configuration is read from $XDG_CONFIG_HOME/pagefreq/config.yaml when
present, then PAGEFREQ_* environment variables, then flags.`,
		Version:       app.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path (YAML or JSON)")

	cmd.AddCommand(NewChartCmd())
	cmd.AddCommand(NewTopCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage names the failed pipeline stage when there is one.
func errorMessage(err error) string {
	var se *app.StageError
	if errors.As(err, &se) {
		return fmt.Sprintf("pagefreq: %s failed: %v", se.Stage, se.Err)
	}
	return fmt.Sprintf("pagefreq: %v", err)
}
