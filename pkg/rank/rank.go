// Package rank selects one segmentation out of a segment.Tree.
//
// Two strategies exist: Baseline scores structurally and FrequencyAware scores with corpus
// counts from an external Provider. Both share the same selection rule: the highest score wins,
// ties go to the candidate with more parts, and remaining ties go to the candidate met first in
// the tree's depth-first order.
package rank

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bastiangx/wordsplit/pkg/segment"
)

// ErrRankingUnavailable is returned when a strategy cannot score because a collaborator failed.
var ErrRankingUnavailable = errors.New("rank: ranking unavailable")

var errNilTree = errors.New("rank: nil tree")

// Ranker picks the best leaf of a tree. The set of implementations is closed to this package.
type Ranker interface {
	Best(tree *segment.Tree) (segment.SegmentedWord, error)
	Name() string

	// score rates one candidate. ok=false removes it from the selection.
	score(w segment.SegmentedWord, root bool, memo map[string]uint64) (s float64, ok bool, err error)
}

// Lexicon reports whether a morph is a known base morpheme.
type Lexicon interface {
	Contains(text string) bool
}

// Provider returns corpus counts. known=false means the text was never seen; err means the
// lookup itself failed.
type Provider interface {
	Frequency(text string) (count uint64, known bool, err error)
}

// Baseline favors maximal decomposition. With a Lexicon set, a split candidate is only
// eligible when every morph is a lexicon entry. The unsplit root is always eligible.
type Baseline struct {
	Lexicon Lexicon
}

func (Baseline) Name() string { return "baseline" }

func (b Baseline) Best(tree *segment.Tree) (segment.SegmentedWord, error) {
	return best(b, tree)
}

func (b Baseline) score(w segment.SegmentedWord, root bool, _ map[string]uint64) (float64, bool, error) {
	if !root && b.Lexicon != nil {
		for _, m := range w.Morphs {
			if !b.Lexicon.Contains(m.Text) {
				return 0, false, nil
			}
		}
	}
	return float64(w.Len()), true, nil
}

// Aggregation folds per-morph counts into one score.
type Aggregation int

const (
	// GeometricMean is zero as soon as one morph is unknown.
	GeometricMean Aggregation = iota
	Minimum
)

func (a Aggregation) String() string {
	switch a {
	case GeometricMean:
		return "geometric"
	case Minimum:
		return "minimum"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

// ParseAggregation maps a config value to an Aggregation. The empty string selects GeometricMean.
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "geometric", "geometric_mean":
		return GeometricMean, nil
	case "min", "minimum":
		return Minimum, nil
	default:
		return 0, fmt.Errorf("rank: unknown aggregation %q", s)
	}
}

// FrequencyAware scores candidates by the corpus counts of their morphs. It never falls back:
// any provider failure aborts Best with ErrRankingUnavailable and the caller decides what to do.
type FrequencyAware struct {
	Provider    Provider
	Aggregation Aggregation
}

func (FrequencyAware) Name() string { return "frequency" }

func (f FrequencyAware) Best(tree *segment.Tree) (segment.SegmentedWord, error) {
	if f.Provider == nil {
		return segment.SegmentedWord{}, fmt.Errorf("%w: no frequency provider", ErrRankingUnavailable)
	}
	return best(f, tree)
}

func (f FrequencyAware) score(w segment.SegmentedWord, _ bool, memo map[string]uint64) (float64, bool, error) {
	counts := make([]uint64, 0, w.Len())
	for _, m := range w.Morphs {
		c, seen := memo[m.Text]
		if !seen {
			n, known, err := f.Provider.Frequency(m.Text)
			if err != nil {
				return 0, false, fmt.Errorf("%w: frequency of %q: %w", ErrRankingUnavailable, m.Text, err)
			}
			if known {
				c = n
			}
			memo[m.Text] = c
		}
		counts = append(counts, c)
	}
	return f.Aggregation.fold(counts), true, nil
}

func (a Aggregation) fold(counts []uint64) float64 {
	if len(counts) == 0 {
		return 0
	}
	switch a {
	case Minimum:
		low := counts[0]
		for _, c := range counts[1:] {
			low = min(low, c)
		}
		return float64(low)
	default:
		var logSum float64
		for _, c := range counts {
			if c == 0 {
				return 0
			}
			logSum += math.Log(float64(c))
		}
		return math.Exp(logSum / float64(len(counts)))
	}
}

// best applies the shared selection rule over the tree's leaves.
func best(r Ranker, tree *segment.Tree) (segment.SegmentedWord, error) {
	if tree == nil {
		return segment.SegmentedWord{}, errNilTree
	}
	memo := make(map[string]uint64)

	found := false
	var (
		bestID    segment.NodeID
		bestScore float64
		bestParts int
	)
	for _, id := range tree.Leaves() {
		w := tree.Segmentation(id)
		s, ok, err := r.score(w, id == segment.Root, memo)
		if err != nil {
			return segment.SegmentedWord{}, err
		}
		if !ok {
			continue
		}
		if !found || s > bestScore || (s == bestScore && w.Len() > bestParts) {
			found = true
			bestID, bestScore, bestParts = id, s, w.Len()
		}
	}
	if !found {
		// unreachable for the shipped strategies: the root is always eligible
		return tree.Segmentation(segment.Root), nil
	}
	return tree.Segmentation(bestID), nil
}

// ParseStrategy maps a config value to the canonical strategy name, "baseline" or "frequency".
func ParseStrategy(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "baseline":
		return "baseline", nil
	case "frequency", "frequency_aware":
		return "frequency", nil
	default:
		return "", fmt.Errorf("rank: unknown strategy %q", name)
	}
}

// ByName builds a ranker from its config name. lex may be nil; provider is required for
// "frequency".
func ByName(name string, lex Lexicon, provider Provider, agg Aggregation) (Ranker, error) {
	strategy, err := ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	if strategy == "baseline" {
		return Baseline{Lexicon: lex}, nil
	}
	if provider == nil {
		return nil, fmt.Errorf("rank: strategy %q needs a frequency provider", name)
	}
	return FrequencyAware{Provider: provider, Aggregation: agg}, nil
}
