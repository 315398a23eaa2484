package main

import (
	"github.com/spf13/cobra"

	"github.com/hyperifyio/pagefreq/internal/app"
	"github.com/hyperifyio/pagefreq/internal/chart"
)

// NewChartCmd creates the chart command.
func NewChartCmd() *cobra.Command {
	kind := chart.Pie
	cmd := &cobra.Command{
		Use:   "chart <address>",
		Short: "Render the most frequent Chinese words as an HTML chart",
		Long: `Chart fetches the page, counts its Chinese words and renders the top
entries as a self-contained HTML chart.

Kinds: pie (饼状图), bar (条形图), line (折线图), word-cloud (词云图), radar (雷达图).
Word clouds show the top 20 entries by default, every other kind the top 10.

Examples:
  pagefreq chart --kind bar https://news.example.cn/ > bar.html
  pagefreq chart --kind 词云图 --top 50 --out cloud.html https://news.example.cn/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, args[0], kind)
		},
	}
	cmd.Flags().VarP(&kind, "kind", "k", "Chart kind: pie, bar, line, word-cloud or radar")
	cmd.Flags().StringP("out", "o", "", "Write the chart to file (default: stdout)")
	addPipelineFlags(cmd)
	return cmd
}

func runChart(cmd *cobra.Command, address string, kind chart.Kind) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	res, err := a.Chart(cmd.Context(), app.Request{Address: address, Kind: kind, TopN: top})
	if err != nil {
		return err
	}
	return writeOutput(cmd, out, res.Artifact.HTML)
}
