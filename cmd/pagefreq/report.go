package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/pagefreq/internal/app"
	"github.com/hyperifyio/pagefreq/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <address>",
		Short: "Write the word ranking of a page as a PDF",
		Long: `Report fetches the page and writes a one-page PDF ranking with a bar per
word. PDF core fonts cannot render Chinese, so a TrueType font with CJK
glyphs is required (--font, PAGEFREQ_PDF_FONT or report.font in the
config file).

Example:
  pagefreq report --font /usr/share/fonts/noto/NotoSansSC-Regular.ttf \
    --out ranking.pdf https://news.example.cn/`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}
	cmd.Flags().StringP("out", "o", "", "PDF output path")
	cmd.Flags().String("font", "", "TrueType font with CJK glyphs")
	_ = cmd.MarkFlagRequired("out")
	addPipelineFlags(cmd)
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
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
	fontPath := a.Config().PDFFontPath
	if fontPath == "" {
		// Nothing to render with; fail before fetching.
		return report.ErrNoFont
	}
	an, err := a.Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, an.Summary(a.TopFor(app.Request{TopN: top})), fontPath); err != nil {
		return err
	}
	return writeOutput(cmd, out, buf.Bytes())
}
