package extract

import (
	"fmt"
	"net/url"
	"strings"
)

// Extractor defines a minimal interface for content extraction strategies.
// Implementations can swap readability tactics without changing callers.
type Extractor interface {
	// Extract converts decoded HTML into a Document.
	// Implementations should be deterministic and avoid side effects.
	Extract(html string, pageURL *url.URL) (Document, error)
}

// Mode names an extraction strategy in configuration.
type Mode string

const (
	ModeAll         Mode = "all"
	ModeReadability Mode = "readability"
)

// AllTextExtractor keeps every visible text node of the page.
type AllTextExtractor struct{}

func (AllTextExtractor) Extract(html string, _ *url.URL) (Document, error) {
	return FromHTML(html)
}

// ReadabilityExtractor keeps the text of the main article only.
type ReadabilityExtractor struct{}

func (ReadabilityExtractor) Extract(html string, pageURL *url.URL) (Document, error) {
	return FromReadability(html, pageURL)
}

// ParseMode accepts the configuration spelling of a Mode; empty means ModeAll.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeAll:
		return ModeAll, nil
	case ModeReadability:
		return m, nil
	default:
		return "", fmt.Errorf("unknown extract mode %q", s)
	}
}

// New returns the extractor for m.
func New(m Mode) Extractor {
	if m == ModeReadability {
		return ReadabilityExtractor{}
	}
	return AllTextExtractor{}
}
