// Package freq counts token occurrences and ranks them.
package freq

import (
	"iter"
	"slices"
)

// Entry is one ranked (token, count) pair.
type Entry struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Table maps tokens to occurrence counts and remembers the order in which
// each token was first seen, which breaks ranking ties.
type Table struct {
	order  []string
	counts map[string]int
	total  int
}

// Aggregate counts tokens in a single pass.
func Aggregate(tokens iter.Seq[string]) *Table {
	t := &Table{counts: make(map[string]int)}
	if tokens == nil {
		return t
	}
	for tok := range tokens {
		if _, seen := t.counts[tok]; !seen {
			t.order = append(t.order, tok)
		}
		t.counts[tok]++
		t.total++
	}
	return t
}

// FromSlice is Aggregate over a slice.
func FromSlice(tokens []string) *Table {
	return Aggregate(slices.Values(tokens))
}

// Count returns the occurrences of tok, zero when absent.
func (t *Table) Count(tok string) int { return t.counts[tok] }

// Len returns the number of distinct tokens.
func (t *Table) Len() int { return len(t.order) }

// Total returns the number of tokens counted; it equals the sum of all counts.
func (t *Table) Total() int { return t.total }

// Entries returns all entries in first-seen order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.order))
	for i, tok := range t.order {
		out[i] = Entry{Token: tok, Count: t.counts[tok]}
	}
	return out
}

// Map returns a copy of the counts.
func (t *Table) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Ranked returns every entry ordered by count descending, ties in
// first-seen order.
func (t *Table) Ranked() []Entry {
	out := t.Entries()
	slices.SortStableFunc(out, func(a, b Entry) int { return b.Count - a.Count })
	return out
}

// TopN returns the first n ranked entries. n <= 0 yields an empty slice and
// n beyond the distinct count yields every entry.
func (t *Table) TopN(n int) []Entry {
	if n <= 0 || t.Len() == 0 {
		return []Entry{}
	}
	ranked := t.Ranked()
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
