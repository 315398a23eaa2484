// Package textenc resolves the character encoding of a fetched page and
// decodes its bytes to UTF-8.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// AutoDetect is the resolved encoding when the response headers do not
// declare a charset. The decoder then sniffs the bytes.
const AutoDetect = "auto-detect"

// minConfidence is the chardet score below which the sniffed markup
// encoding is kept instead.
const minConfidence = 50

// Resolve returns the charset declared in a Content-Type header value, or
// AutoDetect. A header is trusted only when it mentions "charset" at all;
// the declared name is not validated here.
func Resolve(contentType string) string {
	lower := strings.ToLower(contentType)
	i := strings.Index(lower, "charset")
	if i < 0 {
		return AutoDetect
	}
	rest := contentType[i+len("charset"):]
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, "=") {
		return AutoDetect
	}
	rest = rest[1:]
	if j := strings.IndexByte(rest, ';'); j >= 0 {
		rest = rest[:j]
	}
	name := strings.Trim(strings.TrimSpace(rest), `"'`)
	if name == "" {
		return AutoDetect
	}
	return name
}

// Decoded is page text converted to UTF-8 together with the encoding used.
type Decoded struct {
	Text     string
	Encoding string
}

// Decode converts body to UTF-8 using the resolved encoding name. With
// AutoDetect it sniffs a BOM or <meta> declaration first and falls back to
// statistical detection.
func Decode(body []byte, resolved string) (Decoded, error) {
	name := resolved
	if name == "" || name == AutoDetect {
		name = Detect(body)
	}
	enc, canonical := charset.Lookup(name)
	if enc == nil {
		return Decoded{}, &DecodeError{Encoding: name, Err: fmt.Errorf("unknown encoding")}
	}
	text, err := decodeWith(enc, body)
	if err != nil {
		return Decoded{}, &DecodeError{Encoding: canonical, Err: err}
	}
	return Decoded{Text: text, Encoding: canonical}, nil
}

func decodeWith(enc encoding.Encoding, body []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Detect guesses the encoding of an HTML body. It never fails; the last
// resort is the HTML5 default for unlabeled documents.
func Detect(body []byte) string {
	_, name, certain := charset.DetermineEncoding(body, "")
	if certain {
		return name
	}
	switch name {
	case "utf-8":
		// DetermineEncoding only inspects the first 1024 bytes.
		if utf8.Valid(body) {
			return name
		}
	case "windows-1252":
	default:
		// Declared by a <meta> element.
		return name
	}
	r, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil || r == nil || r.Confidence < minConfidence {
		return name
	}
	guess := normalizeDetected(r.Charset)
	if enc, _ := charset.Lookup(guess); enc == nil {
		return name
	}
	return guess
}

// chardet names that are not WHATWG labels.
var detectedAliases = map[string]string{
	"gb-18030": "gb18030",
}

func normalizeDetected(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := detectedAliases[n]; ok {
		return alias
	}
	return n
}
