// Package finder enumerates every segmentation of a compound word into dictionary morphemes
// and linking morphemes, as a segment.Tree.
//
// The search is a dynamic program over byte offsets of the word. For each offset the finder
// computes, once, the outgoing edges (morph match plus linking morpheme) and the minimum number
// of morphs needed to consume the rest of the word. The tree is then expanded with an explicit
// stack, emitting only branches that can still finish within MaxParts.
package finder

import (
	"errors"
	"iter"
	"math"
	"unicode/utf8"

	"github.com/bastiangx/wordsplit/pkg/linking"
	"github.com/bastiangx/wordsplit/pkg/segment"
)

const (
	DefaultMinMorphLength = 2
	DefaultMaxParts       = 5
)

// ErrInvalidInput is returned for words that cannot be searched.
var ErrInvalidInput = errors.New("finder: invalid input")

// Lexicon is the read-only view of the morpheme dictionary the finder needs.
type Lexicon interface {
	Contains(text string) bool
	PrefixMatches(text string) iter.Seq[int]
}

// Options bounds the search.
type Options struct {
	// MinMorphLength is the shortest morph, in runes, accepted below the root.
	MinMorphLength int
	// MaxParts caps the number of morphs in a segmentation.
	MaxParts int
}

// DefaultOptions returns the limits used when none are given.
func DefaultOptions() Options {
	return Options{MinMorphLength: DefaultMinMorphLength, MaxParts: DefaultMaxParts}
}

// Finder builds segmentation trees. It is safe for concurrent use.
type Finder struct {
	lex   Lexicon
	links *linking.Set
	opts  Options
}

// New creates a Finder. Non-positive limits fall back to the defaults and a nil link set means
// no linking morphemes besides the empty one.
func New(lex Lexicon, links *linking.Set, opts Options) *Finder {
	if opts.MinMorphLength < 1 {
		opts.MinMorphLength = DefaultMinMorphLength
	}
	if opts.MaxParts < 1 {
		opts.MaxParts = DefaultMaxParts
	}
	if links == nil {
		links = linking.New()
	}
	return &Finder{lex: lex, links: links, opts: opts}
}

// Options returns the effective limits.
func (f *Finder) Options() Options {
	return f.opts
}

// edge is one way to leave an offset: a morph ending at end, then link up to next.
type edge struct {
	end  int
	link string
	next int
}

const unreachable = math.MaxInt

// plan is the per-word memo: outgoing edges and minimum remaining parts per offset. whole
// marks offsets whose whole remainder is one morph.
type plan struct {
	edges    [][]edge
	minParts []int
	whole    []bool
}

func (f *Finder) plan(word string) *plan {
	n := len(word)
	p := &plan{
		edges:    make([][]edge, n+1),
		minParts: make([]int, n+1),
		whole:    make([]bool, n+1),
	}
	p.minParts[n] = 0
	for off := n - 1; off >= 0; off-- {
		p.minParts[off] = unreachable
		if !utf8.RuneStart(word[off]) {
			continue
		}
		rest := word[off:]
		for length := range f.lex.PrefixMatches(rest) {
			if utf8.RuneCountInString(rest[:length]) < f.opts.MinMorphLength {
				continue
			}
			end := off + length
			for _, b := range f.links.Boundaries(word, end) {
				p.edges[off] = append(p.edges[off], edge{end: end, link: b.Link, next: b.Next})
				if b.Next == n {
					p.whole[off] = true
				}
				if p.minParts[b.Next] == unreachable {
					continue
				}
				if parts := 1 + p.minParts[b.Next]; parts < p.minParts[off] {
					p.minParts[off] = parts
				}
			}
		}
	}
	return p
}

// viable reports whether a branch that has committed depth morphs and resumes at off can
// still consume the word within maxParts.
func (p *plan) viable(off, depth, maxParts int) bool {
	if p.minParts[off] == unreachable {
		return false
	}
	return depth+p.minParts[off] <= maxParts
}

// Find builds the segmentation tree of word.
//
// Every non-root node holds the morphs committed on its path followed by the unsplit remainder
// as one last part. A node is complete when that remainder is itself a morph; it can still have
// children splitting the remainder further. An edge consuming the whole remainder is never
// emitted as a child, since the child would equal its parent.
func (f *Finder) Find(word string) (*segment.Tree, error) {
	if word == "" {
		return nil, ErrInvalidInput
	}
	tree := segment.NewTree(word)
	if f.opts.MaxParts < 2 {
		return tree, nil
	}

	p := f.plan(word)
	n := len(word)

	type frame struct {
		id     segment.NodeID
		off    int
		morphs []segment.Morph
	}
	stack := []frame{{id: segment.Root}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var kids []frame
		for _, e := range p.edges[fr.off] {
			if e.next == n {
				continue
			}
			committed := len(fr.morphs) + 1
			if !p.viable(e.next, committed, f.opts.MaxParts) {
				continue
			}

			morphs := make([]segment.Morph, len(fr.morphs), committed)
			copy(morphs, fr.morphs)
			morphs = append(morphs, segment.Morph{Text: word[fr.off:e.end], Link: e.link})

			sw := segment.SegmentedWord{Morphs: make([]segment.Morph, committed, committed+1)}
			copy(sw.Morphs, morphs)
			sw.Morphs = append(sw.Morphs, segment.Morph{Text: word[e.next:]})

			id, err := tree.Add(fr.id, sw, p.whole[e.next])
			if err != nil {
				return nil, err
			}
			kids = append(kids, frame{id: id, off: e.next, morphs: morphs})
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return tree, nil
}
