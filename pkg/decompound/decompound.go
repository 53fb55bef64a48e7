// Package decompound is the entry point of wordsplit: it builds the segmentation tree of a word
// and ranks it, with result caching, an optional baseline fallback and parallel batches.
package decompound

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bastiangx/wordsplit/internal/logger"
	"github.com/bastiangx/wordsplit/pkg/finder"
	"github.com/bastiangx/wordsplit/pkg/linking"
	"github.com/bastiangx/wordsplit/pkg/rank"
	"github.com/bastiangx/wordsplit/pkg/segment"
)

// ErrInvalidInput is returned for the empty word.
var ErrInvalidInput = finder.ErrInvalidInput

var errNilTree = errors.New("decompound: nil tree")

// Options configures a Decompounder. Zero values select the defaults.
type Options struct {
	MinMorphLength int
	MaxParts       int
	// Linking defaults to linking.German().
	Linking *linking.Set
	// Ranker defaults to rank.Baseline over the dictionary.
	Ranker rank.Ranker
	// FallbackToBaseline retries with the baseline ranker when Ranker reports
	// rank.ErrRankingUnavailable. Fallback results are never cached.
	FallbackToBaseline bool
	// CacheSize bounds the result cache; 0 disables it.
	CacheSize int
	Logger    *log.Logger
}

// Result is one ranked decomposition.
type Result struct {
	Word segment.SegmentedWord
	// Candidates is the number of leaves the ranker chose from.
	Candidates int
	// Ranker names the strategy that produced Word.
	Ranker string
	Cached bool
}

func (r Result) clone() Result {
	r.Word = r.Word.Clone()
	return r
}

// Decompounder splits words against one shared dictionary. It is safe for concurrent use.
type Decompounder struct {
	finder   *finder.Finder
	ranker   rank.Ranker
	fallback rank.Ranker
	cache    *lru.Cache[string, Result]
	log      *log.Logger
}

// New creates a Decompounder over lex.
func New(lex finder.Lexicon, opts Options) (*Decompounder, error) {
	if lex == nil {
		return nil, errors.New("decompound: nil dictionary")
	}
	links := opts.Linking
	if links == nil {
		links = linking.German()
	}
	l := opts.Logger
	if l == nil {
		l = logger.New("decompound")
	}

	d := &Decompounder{
		finder: finder.New(lex, links, finder.Options{MinMorphLength: opts.MinMorphLength, MaxParts: opts.MaxParts}),
		ranker: opts.Ranker,
		log:    l,
	}
	baseline := rank.Baseline{Lexicon: lex}
	if d.ranker == nil {
		d.ranker = baseline
	}
	if opts.FallbackToBaseline && d.ranker.Name() != baseline.Name() {
		d.fallback = baseline
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, Result](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("decompound: cache: %w", err)
		}
		d.cache = cache
	}
	return d, nil
}

// Finder exposes the underlying finder, mainly for its effective options.
func (d *Decompounder) Finder() *finder.Finder {
	return d.finder
}

// Ranker returns the primary ranker.
func (d *Decompounder) Ranker() rank.Ranker {
	return d.ranker
}

// Decompound returns the best segmentation of word.
func (d *Decompounder) Decompound(word string) (segment.SegmentedWord, error) {
	res, err := d.Split(word)
	if err != nil {
		return segment.SegmentedWord{}, err
	}
	return res.Word, nil
}

// Split is Decompound with ranking metadata.
func (d *Decompounder) Split(word string) (Result, error) {
	if word == "" {
		return Result{}, ErrInvalidInput
	}
	if d.cache != nil {
		if res, ok := d.cache.Get(word); ok {
			res = res.clone()
			res.Cached = true
			return res, nil
		}
	}

	tree, err := d.finder.Find(word)
	if err != nil {
		return Result{}, err
	}
	res, degraded, err := d.rank(tree)
	if err != nil {
		return Result{}, err
	}
	if d.cache != nil && !degraded {
		d.cache.Add(word, res.clone())
	}
	return res, nil
}

// Tree returns the full segmentation tree of word for diagnostics.
func (d *Decompounder) Tree(word string) (*segment.Tree, error) {
	return d.finder.Find(word)
}

// Rank picks the best leaf of a tree built by Tree.
func (d *Decompounder) Rank(tree *segment.Tree) (segment.SegmentedWord, error) {
	res, _, err := d.rank(tree)
	return res.Word, err
}

func (d *Decompounder) rank(tree *segment.Tree) (Result, bool, error) {
	if tree == nil {
		return Result{}, false, errNilTree
	}
	candidates := len(tree.Leaves())
	w, err := d.ranker.Best(tree)
	if err == nil {
		return Result{Word: w, Candidates: candidates, Ranker: d.ranker.Name()}, false, nil
	}
	if d.fallback == nil || !errors.Is(err, rank.ErrRankingUnavailable) {
		return Result{}, false, err
	}
	d.log.Warn("Ranking unavailable, using fallback", "word", tree.Word(), "ranker", d.ranker.Name(), "err", err)
	w, err = d.fallback.Best(tree)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Word: w, Candidates: candidates, Ranker: d.fallback.Name()}, true, nil
}

// DecompoundAll splits words concurrently with at most workers goroutines and returns the
// results in input order. The first failure cancels the remaining words.
func (d *Decompounder) DecompoundAll(ctx context.Context, words []string, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	start := time.Now()
	out := make([]Result, len(words))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, w := range words {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := d.Split(w)
			if err != nil {
				return fmt.Errorf("word %d %q: %w", i, w, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.log.Debug("Batch done", "words", len(words), "workers", workers, "took", time.Since(start))
	return out, nil
}

// CacheLen returns the number of cached results.
func (d *Decompounder) CacheLen() int {
	if d.cache == nil {
		return 0
	}
	return d.cache.Len()
}
