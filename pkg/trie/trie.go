// Package trie implements the morpheme dictionary used by the finder: a rune trie stored as an
// arena of nodes addressed by integer handles.
//
// Lookups fold case one rune at a time with unicode.ToLower, the same way entries are folded on
// insertion. Because folding never changes how the query is sliced, PrefixMatches reports byte
// lengths of the caller's original text.
//
// A Dictionary is not safe for concurrent Insert, but once built it can be read by any number
// of goroutines without locking.
package trie

import (
	"iter"
	"slices"
	"unicode"
	"unicode/utf8"
)

// root is the handle of the root node in every arena.
const root int32 = 0

type node struct {
	sym      rune
	terminal bool
	next     map[rune]int32
}

// Dictionary is a set of known base morphemes.
type Dictionary struct {
	nodes []node
	size  int
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{nodes: []node{{}}}
}

// FromWords builds a dictionary holding every non-empty word.
func FromWords(words ...string) *Dictionary {
	d := New()
	for _, w := range words {
		d.Insert(w)
	}
	return d
}

func fold(r rune) rune {
	return unicode.ToLower(r)
}

func (d *Dictionary) child(h int32, r rune) (int32, bool) {
	next := d.nodes[h].next
	if next == nil {
		return 0, false
	}
	c, ok := next[r]
	return c, ok
}

// Insert adds a morpheme and reports whether it was new.
// Empty strings are ignored.
func (d *Dictionary) Insert(morph string) bool {
	if morph == "" {
		return false
	}
	h := root
	for _, r := range morph {
		r = fold(r)
		c, ok := d.child(h, r)
		if !ok {
			c = int32(len(d.nodes))
			d.nodes = append(d.nodes, node{sym: r})
			if d.nodes[h].next == nil {
				d.nodes[h].next = make(map[rune]int32, 1)
			}
			d.nodes[h].next[r] = c
		}
		h = c
	}
	if d.nodes[h].terminal {
		return false
	}
	d.nodes[h].terminal = true
	d.size++
	return true
}

// Contains reports whether text is a known morpheme.
func (d *Dictionary) Contains(text string) bool {
	if text == "" {
		return false
	}
	h := root
	for _, r := range text {
		c, ok := d.child(h, fold(r))
		if !ok {
			return false
		}
		h = c
	}
	return d.nodes[h].terminal
}

// PrefixMatches yields, shortest first, every byte length p such that text[:p] is a known
// morpheme. The walk stops as soon as the trie has no continuation.
func (d *Dictionary) PrefixMatches(text string) iter.Seq[int] {
	return func(yield func(int) bool) {
		h := root
		for i, r := range text {
			c, ok := d.child(h, fold(r))
			if !ok {
				return
			}
			h = c
			if d.nodes[h].terminal {
				_, size := utf8.DecodeRuneInString(text[i:])
				if !yield(i + size) {
					return
				}
			}
		}
	}
}

// Len returns the number of distinct morphemes.
func (d *Dictionary) Len() int {
	return d.size
}

// Words yields every morpheme in folded form, sorted by rune order.
func (d *Dictionary) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		type frame struct {
			h    int32
			path []rune
		}
		stack := []frame{{h: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := d.nodes[f.h]
			if n.terminal {
				if !yield(string(f.path)) {
					return
				}
			}
			keys := sortedKeys(n.next)
			for i := len(keys) - 1; i >= 0; i-- {
				path := append(slices.Clip(f.path), keys[i])
				stack = append(stack, frame{h: n.next[keys[i]], path: path})
			}
		}
	}
}

func sortedKeys(m map[rune]int32) []rune {
	keys := make([]rune, 0, len(m))
	for r := range m {
		keys = append(keys, r)
	}
	slices.Sort(keys)
	return keys
}
