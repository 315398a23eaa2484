// Package langdetect guesses the dominant language of extracted page text so
// callers can warn when a page is unlikely to yield Chinese tokens.
package langdetect

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

// sampleRunes bounds how much text is handed to the detector.
const sampleRunes = 4000

var candidates = []lingua.Language{
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.English,
}

// Result of probing one text.
type Result struct {
	// Language is the detected language name, empty when undetermined.
	Language string
	Chinese  bool
}

// Detector builds its lingua model on first use; models load slowly.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// New returns a Detector.
func New() *Detector { return &Detector{} }

// Detect reports the language of text.
func (p *Detector) Detect(text string) Result {
	sample := truncateRunes(text, sampleRunes)
	if sample == "" {
		return Result{}
	}
	p.once.Do(func() {
		p.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
	lang, ok := p.detector.DetectLanguageOf(sample)
	if !ok {
		return Result{}
	}
	return Result{Language: lang.String(), Chinese: lang == lingua.Chinese}
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
