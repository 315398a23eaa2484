package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/pagefreq/internal/app"
	"github.com/hyperifyio/pagefreq/internal/report"
)

// NewTopCmd creates the top command.
func NewTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top <address>",
		Short: "Print the most frequent Chinese words on a page",
		Long: `Top fetches the page and prints its most frequent Chinese words, most
frequent first. Words with equal counts keep the order they first appear in.

Examples:
  pagefreq top https://news.example.cn/
  pagefreq top --top 30 --format markdown https://news.example.cn/ > ranking.md`,
		Args: cobra.ExactArgs(1),
		RunE: runTop,
	}
	cmd.Flags().StringP("format", "f", "text", "Output format: text or markdown")
	cmd.Flags().StringP("out", "o", "", "Write the ranking to file (default: stdout)")
	addPipelineFlags(cmd)
	return cmd
}

func runTop(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "markdown" {
		return fmt.Errorf("unknown format %q (want text or markdown)", format)
	}
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	an, err := a.Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	summary := an.Summary(a.TopFor(app.Request{TopN: top}))

	var buf bytes.Buffer
	if format == "markdown" {
		err = report.WriteMarkdown(&buf, summary)
	} else {
		err = report.WriteText(&buf, summary)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, out, buf.Bytes())
}
