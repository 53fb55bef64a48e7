// Package segment models one segmentation of a compound word and the tree of all candidate
// segmentations produced for a single input.
package segment

import (
	"slices"
	"strings"
)

// Morph is a contiguous piece of the original word followed by an optional linking morpheme.
type Morph struct {
	Text string `msgpack:"m" json:"text"`
	Link string `msgpack:"l,omitempty" json:"link,omitempty"`
}

// SegmentedWord is an ordered sequence of morphs. Concatenating every Text and Link in order
// gives back the word it was built from.
type SegmentedWord struct {
	Morphs []Morph `msgpack:"p" json:"morphs"`
}

// New creates a SegmentedWord from morphs. The slice is copied.
func New(morphs ...Morph) SegmentedWord {
	return SegmentedWord{Morphs: slices.Clone(morphs)}
}

// Trivial returns the one-part segmentation of word.
func Trivial(word string) SegmentedWord {
	return SegmentedWord{Morphs: []Morph{{Text: word}}}
}

// Word reconstructs the original word.
func (w SegmentedWord) Word() string {
	var sb strings.Builder
	for _, m := range w.Morphs {
		sb.WriteString(m.Text)
		sb.WriteString(m.Link)
	}
	return sb.String()
}

// Len returns the number of morphs.
func (w SegmentedWord) Len() int {
	return len(w.Morphs)
}

// Texts returns the morph texts without linking morphemes.
func (w SegmentedWord) Texts() []string {
	out := make([]string, len(w.Morphs))
	for i, m := range w.Morphs {
		out[i] = m.Text
	}
	return out
}

// Equal reports whether both segmentations have the same morph sequence.
func (w SegmentedWord) Equal(o SegmentedWord) bool {
	return slices.Equal(w.Morphs, o.Morphs)
}

// Clone returns a copy that shares no memory with w.
func (w SegmentedWord) Clone() SegmentedWord {
	return New(w.Morphs...)
}

// Valid reports whether w can be written in notation and parsed back unchanged: at least one
// morph, no empty morph text, and no reserved notation runes anywhere.
func (w SegmentedWord) Valid() bool {
	if len(w.Morphs) == 0 {
		return false
	}
	for _, m := range w.Morphs {
		if m.Text == "" || strings.ContainsAny(m.Text, reserved) || strings.ContainsAny(m.Link, reserved) {
			return false
		}
	}
	return true
}

// String returns the notation form, see Format.
func (w SegmentedWord) String() string {
	return Format(w)
}
