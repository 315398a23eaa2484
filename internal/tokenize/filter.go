package tokenize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CJK Unified Ideographs bounds.
const (
	cjkFirst rune = '\u4e00'
	cjkLast  rune = '\u9fff'
)

// MinTokenRunes is the shortest accepted token length in code points.
const MinTokenRunes = 2

// Policy selects how the CJK range test is applied to a candidate word.
type Policy string

const (
	// PolicyPerRune requires every code point to be a CJK unified ideograph.
	PolicyPerRune Policy = "per-rune"
	// PolicyLexicographic compares the whole word as a string against the
	// one-character bounds U+4E00 and U+9FFF. In practice this accepts
	// any word whose first code point is in U+4E00..U+9FFE, whatever follows.
	PolicyLexicographic Policy = "lexicographic"
)

// ParsePolicy accepts the configuration spelling of a Policy; empty means PolicyPerRune.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyPerRune:
		return PolicyPerRune, nil
	case PolicyLexicographic:
		return p, nil
	default:
		return "", fmt.Errorf("unknown filter policy %q", s)
	}
}

// Accept reports whether word is a token under p.
func (p Policy) Accept(word string) bool {
	if utf8.RuneCountInString(word) < MinTokenRunes {
		return false
	}
	if p == PolicyLexicographic {
		return string(cjkFirst) <= word && word <= string(cjkLast)
	}
	return IsCJK(word)
}

// IsCJK reports whether s is non-empty and made only of CJK unified ideographs.
func IsCJK(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < cjkFirst || r > cjkLast {
			return false
		}
	}
	return true
}
