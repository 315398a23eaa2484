package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagefreq/internal/textenc"
)

// Document is the text content of a page.
type Document struct {
	Title string
	Text  string
}

// hiddenSelector matches elements whose character data is never rendered as text.
const hiddenSelector = "script, style, template"

// FromHTML returns every text node of the document in document order, with
// no separators added. Comments and the contents of script, style and
// template elements are skipped. The parser is lenient, so a ParseError
// only happens when the input cannot be read at all.
func FromHTML(input string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return Document{}, &ParseError{Err: err}
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(hiddenSelector).Remove()
	return Document{Title: title, Text: doc.Text()}, nil
}

// FromReadability narrows the page to its main article before collecting
// text. Pages readability cannot make sense of fall back to FromHTML.
func FromReadability(input string, pageURL *url.URL) (Document, error) {
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(input), pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		log.Debug().Err(err).Str("url", pageURL.String()).Msg("readability found no article; using full page text")
		return FromHTML(input)
	}
	doc, err := FromHTML(article.Content)
	if err != nil {
		return Document{}, err
	}
	if t := strings.TrimSpace(article.Title); t != "" {
		doc.Title = t
	}
	return doc, nil
}

// FromBytes decodes raw page bytes with the resolved encoding and extracts
// text with ex.
func FromBytes(ex Extractor, raw []byte, encoding string, pageURL *url.URL) (Document, textenc.Decoded, error) {
	decoded, err := textenc.Decode(raw, encoding)
	if err != nil {
		return Document{}, textenc.Decoded{}, err
	}
	doc, err := ex.Extract(decoded.Text, pageURL)
	if err != nil {
		return Document{}, decoded, err
	}
	return doc, decoded, nil
}

// ParseError reports markup the parser could not turn into a tree.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse html: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }
