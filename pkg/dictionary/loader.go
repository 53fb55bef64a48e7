// Package dictionary loads the morpheme dictionary and the linking-morpheme table from disk.
package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/bastiangx/wordsplit/internal/utils"
	"github.com/bastiangx/wordsplit/pkg/linking"
	"github.com/bastiangx/wordsplit/pkg/trie"
)

// notation runes cannot appear in a morpheme
const reserved = "+()"

// LoaderStats provides statistics about a load
type LoaderStats struct {
	Files    int
	Lines    int
	Inserted int
	Skipped  int
	Elapsed  time.Duration
}

// ReadWords parses a word list: one morpheme per line, optionally followed by blank-separated
// fields (a frequency column is common and ignored). Empty lines and '#' comments are skipped,
// entries are NFC-normalized, and entries containing notation runes are dropped.
func ReadWords(r io.Reader) (words []string, skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word := utils.NormalizeWord(strings.Fields(line)[0])
		if strings.ContainsAny(word, reserved) {
			skipped++
			continue
		}
		words = append(words, word)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, err
	}
	return words, skipped, nil
}

// LoadWords inserts every word of r into d.
func LoadWords(r io.Reader, d *trie.Dictionary) (LoaderStats, error) {
	words, skipped, err := ReadWords(r)
	if err != nil {
		return LoaderStats{}, err
	}
	stats := LoaderStats{Lines: len(words) + skipped, Skipped: skipped}
	for _, w := range words {
		if d.Insert(w) {
			stats.Inserted++
		}
	}
	return stats, nil
}

// LoadFiles builds one dictionary from any mix of word lists and snapshots. Files are parsed
// concurrently but merged in argument order.
func LoadFiles(ctx context.Context, paths ...string) (*trie.Dictionary, LoaderStats, error) {
	start := time.Now()
	if len(paths) == 0 {
		return nil, LoaderStats{}, fmt.Errorf("no dictionary files given")
	}

	type parsed struct {
		words   []string
		skipped int
		snap    *trie.Dictionary
	}
	results := make([]parsed, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			format, err := DetectFileFormat(path)
			if err != nil {
				return err
			}
			log.Debugf("Loading %s as %s", path, format)
			if format == FormatSnapshot {
				d, err := LoadSnapshot(path)
				results[i] = parsed{snap: d}
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()
			words, skipped, err := ReadWords(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = parsed{words: words, skipped: skipped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, LoaderStats{}, err
	}

	d := trie.New()
	stats := LoaderStats{Files: len(paths)}
	for _, p := range results {
		if p.snap != nil {
			for w := range p.snap.Words() {
				stats.Lines++
				if d.Insert(w) {
					stats.Inserted++
				}
			}
			continue
		}
		stats.Lines += len(p.words) + p.skipped
		stats.Skipped += p.skipped
		for _, w := range p.words {
			if d.Insert(w) {
				stats.Inserted++
			}
		}
	}
	stats.Elapsed = time.Since(start)
	if stats.Skipped > 0 {
		log.Warnf("Skipped %d dictionary entries containing %q", stats.Skipped, reserved)
	}
	log.Debugf("Loaded %d morphemes from %d files in %v", d.Len(), stats.Files, stats.Elapsed)
	return d, stats, nil
}

// LoadLinking reads a linking-morpheme file: one morpheme per line in priority order, '#'
// comments allowed. The empty morpheme is always present and needs no line.
func LoadLinking(path string) (*linking.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open linking file %s: %w", path, err)
	}
	defer f.Close()

	var morphemes []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := utils.NormalizeWord(line)
		if strings.ContainsAny(m, reserved) || strings.ContainsFunc(m, func(r rune) bool { return r == ' ' || r == '\t' }) {
			return nil, fmt.Errorf("invalid linking morpheme %q in %s", line, path)
		}
		morphemes = append(morphemes, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read linking file %s: %w", path, err)
	}
	return linking.New(morphemes...), nil
}
