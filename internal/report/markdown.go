package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// WriteMarkdown writes the ranking as a Markdown document with a summary
// table, the ranking table and a mermaid pie chart.
func WriteMarkdown(w io.Writer, s Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("词频统计")
	md.PlainText("")
	writeMarkdownHeader(md, s)

	md.H2("Top tokens")
	md.PlainText("")
	if len(s.Entries) == 0 {
		md.PlainText("No Chinese tokens found.")
		md.PlainText("")
		return md.Build()
	}

	rows := make([][]string, len(s.Entries))
	for i, e := range s.Entries {
		rows[i] = []string{strconv.Itoa(i + 1), e.Token, strconv.Itoa(e.Count), share(e.Count, s.Tokens)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Token", "Count", "Share"},
		Rows:   rows,
	})
	md.PlainText("")

	writePieChart(md, s)
	return md.Build()
}

func writeMarkdownHeader(md *markdown.Markdown, s Summary) {
	rows := [][]string{
		{"Address", "`" + s.Address + "`"},
	}
	if s.FinalURL != "" && s.FinalURL != s.Address {
		rows = append(rows, []string{"Final URL", "`" + s.FinalURL + "`"})
	}
	if s.Title != "" {
		rows = append(rows, []string{"Title", s.Title})
	}
	if s.StatusCode != 0 {
		rows = append(rows, []string{"Status", strconv.Itoa(s.StatusCode)})
	}
	if s.Encoding != "" {
		rows = append(rows, []string{"Encoding", s.Encoding})
	}
	if s.Truncated {
		rows = append(rows, []string{"Truncated", "yes (body exceeded the size limit)"})
	}
	rows = append(rows,
		[]string{"Tokens", strconv.Itoa(s.Tokens)},
		[]string{"Distinct tokens", strconv.Itoa(s.Distinct)},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Token distribution"),
		piechart.WithShowData(true),
	)
	for _, e := range s.Entries {
		chart.LabelAndIntValue(e.Token, uint64(e.Count))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
