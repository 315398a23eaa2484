// Package report writes a frequency ranking as text, Markdown or PDF.
package report

import (
	"fmt"
	"io"

	"github.com/hyperifyio/pagefreq/internal/freq"
)

// Summary is everything a report needs about one pipeline run.
type Summary struct {
	Address    string
	FinalURL   string
	Title      string
	StatusCode int
	Encoding   string
	// Tokens is the number of tokens that passed the filter.
	Tokens   int
	Distinct int
	Entries  []freq.Entry
	// Truncated marks a body cut at the configured size limit.
	Truncated bool
}

// WriteText prints a numbered ranking, one "token: count" per line.
func WriteText(w io.Writer, s Summary) error {
	for i, e := range s.Entries {
		if _, err := fmt.Fprintf(w, "%d. %s: %d\n", i+1, e.Token, e.Count); err != nil {
			return err
		}
	}
	return nil
}

// share formats count as a percentage of total.
func share(count, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)*100/float64(total))
}
