// Package app turns a Config into a ready Decompounder: it loads the dictionary and the linking
// morphemes, opens the frequency backend and picks the ranker.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordsplit/internal/logger"
	"github.com/bastiangx/wordsplit/internal/utils"
	"github.com/bastiangx/wordsplit/pkg/config"
	"github.com/bastiangx/wordsplit/pkg/decompound"
	"github.com/bastiangx/wordsplit/pkg/dictionary"
	"github.com/bastiangx/wordsplit/pkg/frequency"
	"github.com/bastiangx/wordsplit/pkg/linking"
	"github.com/bastiangx/wordsplit/pkg/rank"
	"github.com/bastiangx/wordsplit/pkg/server"
	"github.com/bastiangx/wordsplit/pkg/trie"
)

// App owns everything opened for one config.
type App struct {
	Config       *config.Config
	Dictionary   *trie.Dictionary
	Links        *linking.Set
	Decompounder *decompound.Decompounder

	store *frequency.Store
	log   *log.Logger
}

// Open validates cfg and builds the splitter. A nil logger selects logger.New("app").
func Open(ctx context.Context, cfg *config.Config, l *log.Logger) (*App, error) {
	if l == nil {
		l = logger.New("app")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	paths := dictPaths(cfg)
	dict, stats, err := dictionary.LoadFiles(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	if dict.Len() == 0 {
		l.Warn("Dictionary is empty, every word stays unsplit", "paths", paths)
	}

	links := linking.New(cfg.Split.LinkingMorphemes...)
	if cfg.Dict.LinkingPath != "" {
		links, err = dictionary.LoadLinking(utils.ResolveDataFile(cfg.Dict.LinkingPath))
		if err != nil {
			return nil, err
		}
	}

	a := &App{Config: cfg, Dictionary: dict, Links: links, log: l}

	strategy, err := rank.ParseStrategy(cfg.Rank.Strategy)
	if err != nil {
		return nil, err
	}
	var provider rank.Provider
	if strategy == "frequency" {
		provider, err = a.openProvider()
		if err != nil {
			return nil, err
		}
	}
	agg, err := rank.ParseAggregation(cfg.Rank.Aggregation)
	if err != nil {
		a.Close()
		return nil, err
	}
	ranker, err := rank.ByName(cfg.Rank.Strategy, dict, provider, agg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Decompounder, err = decompound.New(dict, decompound.Options{
		MinMorphLength:     cfg.Split.MinMorphLength,
		MaxParts:           cfg.Split.MaxParts,
		Linking:            links,
		Ranker:             ranker,
		FallbackToBaseline: cfg.Rank.Fallback,
		CacheSize:          cfg.Split.CacheSize,
		Logger:             l.WithPrefix("decompound"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	l.Debug("Ready",
		"morphemes", dict.Len(),
		"files", stats.Files,
		"links", links.Len(),
		"ranker", ranker.Name(),
		"took", time.Since(start))
	return a, nil
}

// openProvider opens the configured frequency backend, wrapped in an LRU when
// rank.frequency_cache is positive.
func (a *App) openProvider() (rank.Provider, error) {
	rc := a.Config.Rank
	var provider rank.Provider

	switch strings.ToLower(rc.FrequencyBackend) {
	case "memory":
		idx := frequency.NewIndex()
		if rc.FrequencyPath != "" {
			path := utils.ResolveDataFile(rc.FrequencyPath)
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open frequency list: %w", err)
			}
			defer f.Close()
			n, err := idx.ReadFrom(f)
			if err != nil {
				return nil, fmt.Errorf("read frequency list %s: %w", path, err)
			}
			a.log.Debug("Frequency index loaded", "entries", n, "words", idx.Len())
		}
		provider = idx
	case "badger":
		if rc.FrequencyPath == "" {
			return nil, fmt.Errorf("%w: rank.frequency_path is required for the badger backend", config.ErrInvalidConfig)
		}
		store, err := frequency.OpenStore(frequency.StoreOptions{
			Path:   rc.FrequencyPath,
			Logger: a.log.WithPrefix("freq"),
		})
		if err != nil {
			return nil, err
		}
		a.store = store
		provider = store
	case "gse":
		var files []string
		for _, p := range strings.Split(rc.FrequencyPath, ",") {
			if p = strings.TrimSpace(p); p != "" {
				files = append(files, utils.ResolveDataFile(p))
			}
		}
		g, err := frequency.NewGse(files...)
		if err != nil {
			return nil, err
		}
		provider = g
	default:
		return nil, fmt.Errorf("%w: rank.frequency_backend %q", config.ErrInvalidConfig, rc.FrequencyBackend)
	}

	if rc.FrequencyCache > 0 {
		cached, err := frequency.NewCached(provider, rc.FrequencyCache)
		if err != nil {
			a.Close()
			return nil, err
		}
		provider = cached
	}
	return provider, nil
}

// Server returns an IPC server over the app's Decompounder.
func (a *App) Server(r io.Reader, w io.Writer) *server.Server {
	return server.NewServer(a.Decompounder, r, w, server.Options{
		MaxWordLength: a.Config.Server.MaxWordLength,
		BatchWorkers:  a.Config.Server.BatchWorkers,
		Morphemes:     a.Dictionary.Len(),
		Logger:        a.log.WithPrefix("server"),
	})
}

func dictPaths(cfg *config.Config) []string {
	paths := cfg.Dict.Paths()
	for i, p := range paths {
		paths[i] = utils.ResolveDataFile(p)
	}
	return paths
}

// Close releases the frequency store, if one was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// ImportFrequencies loads a "word count [pos]" list into the badger store named by cfg.
func ImportFrequencies(cfg *config.Config, path string, l *log.Logger) (int, error) {
	if l == nil {
		l = logger.New("import")
	}
	if cfg.Rank.FrequencyPath == "" {
		return 0, fmt.Errorf("%w: rank.frequency_path must name the badger directory", config.ErrInvalidConfig)
	}
	if !strings.EqualFold(cfg.Rank.FrequencyBackend, "badger") {
		l.Warn("Importing into badger although another backend is configured", "backend", cfg.Rank.FrequencyBackend)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open frequency list: %w", err)
	}
	defer f.Close()

	store, err := frequency.OpenStore(frequency.StoreOptions{Path: cfg.Rank.FrequencyPath, Logger: l})
	if err != nil {
		return 0, err
	}
	n, err := store.Import(f)
	return n, errors.Join(err, store.Close())
}

// WriteSnapshot loads the dictionary files named by cfg and writes them as one msgpack
// snapshot to out, which must end in .bin or .msgpack to be loadable again.
func WriteSnapshot(ctx context.Context, cfg *config.Config, out string, l *log.Logger) (int, error) {
	if l == nil {
		l = logger.New("snapshot")
	}
	if !dictionary.HasExtension(out, dictionary.FormatSnapshot) {
		return 0, fmt.Errorf("snapshot %s must end in .bin or .msgpack", out)
	}
	dict, stats, err := dictionary.LoadFiles(ctx, dictPaths(cfg)...)
	if err != nil {
		return 0, fmt.Errorf("load dictionary: %w", err)
	}
	if err := dictionary.SaveSnapshot(out, dict); err != nil {
		return 0, err
	}
	l.Info("Snapshot written", "path", out, "morphemes", dict.Len(), "files", stats.Files)
	return dict.Len(), nil
}
