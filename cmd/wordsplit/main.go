// Copyright 2025 The WordSplit Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the compound splitting server and CLI [DBG] application.

WordSplit splits compound words into dictionary morphemes joined by linking morphemes
(Fugenelemente), e.g. "Aktionsplan" into "Aktion(s)+plan". It enumerates every segmentation
the dictionary allows as a tree and ranks the leaves, either structurally or with corpus
frequencies.

# Usage

Start the server with default settings:

	wordsplit

Use a custom dictionary and enable debug mode:

	wordsplit -dict /path/to/morphemes.txt -d

Run in CLI mode for interactive testing, printing the whole segmentation tree:

	wordsplit -c -tree

Fill the badger frequency store named by rank.frequency_path from a "word count" list:

	wordsplit -import-freq counts.txt

Compile the configured dictionary files into one msgpack snapshot, loadable as dict.path:

	wordsplit -snapshot morphemes.bin

# Configuration

Runtime configuration is a TOML file (YAML for .yaml/.yml paths) created with defaults in the
user config dir when missing:

	[split]
	min_morph_length = 2
	max_parts = 5
	linking_morphemes = ["", "s", "es", "n", "en", "er", "e", "ens"]
	cache_size = 4096

	[dict]
	path = "data/morphemes.txt"

	[rank]
	strategy = "baseline"
	frequency_backend = "memory"

# IPC Protocol

The server communicates via MessagePack over stdin/stdout:

	{"id": "req1", "w": "Aktionsplan"}

is answered with

	{"id": "req1", "n": "Aktion(s)+plan", "p": [{"m": "Aktion", "l": "s"}, {"m": "plan"}], "c": 2, "r": "baseline", "t": 41}

See package server for the tree, batch and health actions.

# Command Line Flags

	-config string
	    Path to a config file (default: user config dir)
	-dict string
	    Dictionary file(s), comma separated; overrides dict.path
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-tree
	    Print the segmentation tree in CLI mode
	-import-freq string
	    Import a frequency list into the badger store and exit
	-snapshot string
	    Write the loaded dictionary as a msgpack snapshot (.bin) and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordsplit/internal/app"
	"github.com/bastiangx/wordsplit/internal/cli"
	"github.com/bastiangx/wordsplit/pkg/config"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordsplit"
	gh      = "https://github.com/bastiangx/wordsplit"
)

// sigHandler cancels the run on SIGINT/SIGTERM and exits after cleanup.
// The server may be blocked on stdin, so waiting for it to notice is not enough.
func sigHandler(cancel context.CancelFunc, cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		cleanup()
		os.Exit(0)
	}()
}

func showVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ WordSplit ] Splits compound words into their morphemes")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// main only manages the flow; loading and wiring live in internal/app.
func main() {
	configPath := flag.String("config", "", "Path to a config file (default: user config dir)")
	dictPath := flag.String("dict", "", "Dictionary file(s), comma separated; overrides dict.path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	showTree := flag.Bool("tree", false, "Print the segmentation tree in CLI mode")
	importFreq := flag.String("import-freq", "", "Import a \"word count\" list into the badger frequency store and exit")
	snapshot := flag.String("snapshot", "", "Write the loaded dictionary as a msgpack snapshot (.bin) and exit")
	version := flag.Bool("version", false, "Show current version")
	flag.Parse()

	if *version {
		showVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", activePath)
	if *dictPath != "" {
		cfg.Dict.Path = *dictPath
	}

	if *importFreq != "" {
		n, err := app.ImportFrequencies(cfg, *importFreq, nil)
		if err != nil {
			log.Fatalf("Failed to import frequencies: %v", err)
		}
		log.SetLevel(log.InfoLevel)
		log.Infof("Imported %s entries into %s", cli.FormatWithCommas(n), cfg.Rank.FrequencyPath)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *snapshot != "" {
		n, err := app.WriteSnapshot(ctx, cfg, *snapshot, nil)
		if err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		log.SetLevel(log.InfoLevel)
		log.Infof("Wrote %s morphemes to %s", cli.FormatWithCommas(n), *snapshot)
		return
	}

	a, err := app.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Failed to init splitter: %v", err)
	}
	sigHandler(cancel, func() { a.Close() })
	defer a.Close()

	// CLI is mainly for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		tree := *showTree || cfg.CLI.ShowTree
		log.Debug("Input info:", "maxLength", cfg.Server.MaxWordLength, "tree", tree)

		inputHandler := cli.NewInputHandler(a.Decompounder, os.Stdin, os.Stdout, cfg.Server.MaxWordLength, tree)
		if err := inputHandler.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := a.Server(os.Stdin, os.Stdout)
	showStartupInfo(activePath, a.Dictionary.Len())

	if err := srv.Start(ctx); err != nil {
		log.Errorf("Server stopped: %v", err)
		a.Close()
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(configPath string, morphemes int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" WordSplit ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Infof("morphemes: %s", cli.FormatWithCommas(morphemes))
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
