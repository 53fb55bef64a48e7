// Package linking holds the ordered set of linking morphemes (Fugenelemente) tried at every
// split boundary.
package linking

import (
	"slices"
	"strings"
)

// Set is an immutable, ordered collection of linking morphemes. The empty morpheme is always
// present and always tried first.
type Set struct {
	morphemes []string
}

// New builds a Set from morphemes, keeping first-seen order. Morphemes equal up to case are
// duplicates, since boundaries match case-insensitively.
func New(morphemes ...string) *Set {
	out := make([]string, 1, len(morphemes)+1)
	seen := map[string]bool{"": true}
	for _, m := range morphemes {
		key := strings.ToLower(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return &Set{morphemes: out}
}

// German returns the linking morphemes common in German nominal compounds.
func German() *Set {
	return New("s", "es", "n", "en", "er", "e", "ens")
}

// All returns a copy of the morphemes in trial order.
func (s *Set) All() []string {
	return slices.Clone(s.morphemes)
}

// Len returns the number of morphemes, including the empty one.
func (s *Set) Len() int {
	return len(s.morphemes)
}

// Contains reports whether m is part of the set, ignoring case.
func (s *Set) Contains(m string) bool {
	return slices.ContainsFunc(s.morphemes, func(x string) bool { return strings.EqualFold(x, m) })
}

// Boundary is one accepted linking morpheme at a split point.
type Boundary struct {
	// Link is the linking morpheme as spelled in the word.
	Link string
	// Next is the byte offset where the following morph starts.
	Next int
}

// Boundaries reports, in trial order, every linking morpheme that can follow a morph ending at
// byte offset end of word. A non-empty morpheme must match case-insensitively and may not be the
// last characters of the word.
func (s *Set) Boundaries(word string, end int) []Boundary {
	var out []Boundary
	for _, m := range s.morphemes {
		if m == "" {
			out = append(out, Boundary{Next: end})
			continue
		}
		next := end + len(m)
		if next >= len(word) {
			continue
		}
		if !strings.EqualFold(word[end:next], m) {
			continue
		}
		out = append(out, Boundary{Link: word[end:next], Next: next})
	}
	return out
}
