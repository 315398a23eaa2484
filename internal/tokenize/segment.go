package tokenize

import (
	"fmt"
	"strings"

	"github.com/go-ego/gse"
)

// Segmenter splits unsegmented text into candidate words. Concatenating the
// words need not reproduce the input.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// SegmenterKind names a Segmenter in configuration.
type SegmenterKind string

const (
	// SegmenterDict is dictionary segmentation with HMM for unknown words.
	SegmenterDict SegmenterKind = "dict"
	// SegmenterRuns splits on script boundaries only; no dictionary needed.
	SegmenterRuns SegmenterKind = "runs"
)

// ParseSegmenterKind accepts the configuration spelling; empty means SegmenterDict.
func ParseSegmenterKind(s string) (SegmenterKind, error) {
	switch k := SegmenterKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", SegmenterDict:
		return SegmenterDict, nil
	case SegmenterRuns:
		return k, nil
	default:
		return "", fmt.Errorf("unknown segmenter %q", s)
	}
}

// NewSegmenter builds the segmenter for kind. dictPath optionally adds a
// user dictionary to the embedded one and is ignored by SegmenterRuns.
func NewSegmenter(kind SegmenterKind, dictPath string) (Segmenter, error) {
	switch kind {
	case SegmenterRuns:
		return RunSegmenter{}, nil
	case SegmenterDict, "":
		return NewDictSegmenter(dictPath)
	default:
		return nil, &Error{Err: fmt.Errorf("unknown segmenter %q", kind)}
	}
}

// DictSegmenter wraps gse, a jieba-compatible segmenter.
type DictSegmenter struct {
	seg gse.Segmenter
}

// NewDictSegmenter loads the embedded dictionary and, when dictPath is set,
// the user dictionary on top of it.
func NewDictSegmenter(dictPath string) (*DictSegmenter, error) {
	d := &DictSegmenter{}
	if err := d.seg.LoadDictEmbed(); err != nil {
		return nil, &Error{Err: fmt.Errorf("load embedded dictionary: %w", err)}
	}
	if p := strings.TrimSpace(dictPath); p != "" {
		if err := d.seg.LoadDict(p); err != nil {
			return nil, &Error{Err: fmt.Errorf("load dictionary %s: %w", p, err)}
		}
	}
	return d, nil
}

// Segment cuts text in accurate mode with HMM enabled.
func (d *DictSegmenter) Segment(text string) ([]string, error) {
	return d.seg.Cut(text, true), nil
}

// RunSegmenter splits text into maximal runs of CJK ideographs and maximal
// runs of everything else.
type RunSegmenter struct{}

func (RunSegmenter) Segment(text string) ([]string, error) {
	var out []string
	var cur []rune
	inCJK := false
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range text {
		isCJK := r >= cjkFirst && r <= cjkLast
		if len(cur) > 0 && isCJK != inCJK {
			flush()
		}
		inCJK = isCJK
		cur = append(cur, r)
	}
	flush()
	return out, nil
}
