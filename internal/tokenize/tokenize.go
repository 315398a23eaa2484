// Package tokenize segments page text into words and keeps the Chinese ones.
package tokenize

import (
	"errors"
	"fmt"
	"iter"
)

// Tokenizer pairs a segmenter with a filter policy.
type Tokenizer struct {
	seg    Segmenter
	policy Policy
}

// New returns a Tokenizer. An empty policy means PolicyPerRune.
func New(seg Segmenter, policy Policy) *Tokenizer {
	if policy == "" {
		policy = PolicyPerRune
	}
	return &Tokenizer{seg: seg, policy: policy}
}

// Policy returns the filter policy in use.
func (t *Tokenizer) Policy() Policy { return t.policy }

// Tokens segments text once and returns the accepted words as a sequence.
// The sequence is lazy and can be ranged over any number of times.
func (t *Tokenizer) Tokens(text string) (iter.Seq[string], error) {
	words, err := t.segment(text)
	if err != nil {
		return nil, err
	}
	policy := t.policy
	return func(yield func(string) bool) {
		for _, w := range words {
			if !policy.Accept(w) {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}, nil
}

// Tokenize is Tokens collected into a slice.
func (t *Tokenizer) Tokenize(text string) ([]string, error) {
	seq, err := t.Tokens(text)
	if err != nil {
		return nil, err
	}
	var out []string
	for w := range seq {
		out = append(out, w)
	}
	return out, nil
}

func (t *Tokenizer) segment(text string) (words []string, err error) {
	if text == "" {
		return nil, nil
	}
	defer func() {
		// Engine panics surface as tokenization errors.
		if r := recover(); r != nil {
			err = &Error{Err: fmt.Errorf("segmenter panic: %v", r)}
		}
	}()
	words, err = t.seg.Segment(text)
	if err != nil {
		var te *Error
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &Error{Err: err}
	}
	return words, nil
}

// Error reports a failure inside the segmentation engine.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("tokenize: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }
