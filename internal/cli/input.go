// Package cli handles cmd line input for trying out splits in real time, mostly while tuning
// a dictionary or the linking morphemes.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordsplit/internal/utils"
	"github.com/bastiangx/wordsplit/pkg/decompound"
	"github.com/bastiangx/wordsplit/pkg/segment"
)

// Splitter is the part of a decompound.Decompounder the loop uses.
type Splitter interface {
	Split(word string) (decompound.Result, error)
	Tree(word string) (*segment.Tree, error)
}

// InputHandler reads one word per line and prints its best split, and optionally the whole
// segmentation tree. Lines starting with ':' are commands: ":tree" toggles the tree view and
// ":q" ends the loop.
type InputHandler struct {
	splitter     Splitter
	in           io.Reader
	out          io.Writer
	styles       styles
	maxLength    int
	showTree     bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(splitter Splitter, in io.Reader, out io.Writer, maxLength int, showTree bool) *InputHandler {
	return &InputHandler{
		splitter:  splitter,
		in:        in,
		out:       out,
		styles:    newStyles(out),
		maxLength: maxLength,
		showTree:  showTree,
	}
}

// Start begins the interface loop. It returns nil once the input ends or ":q" is read.
func (h *InputHandler) Start() error {
	log.Print("wordsplit CLI")
	log.Print("type a compound and press Enter (:tree toggles the tree, :q or Ctrl+D exits):")
	reader := bufio.NewReader(h.in)

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		line = strings.TrimSpace(line)
		switch {
		case line == ":q":
			return nil
		case line == ":tree":
			h.showTree = !h.showTree
			log.Infof("tree view %s", onOff(h.showTree))
		case line != "":
			h.handleInput(line)
		}
		if err != nil {
			return nil
		}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// handleInput splits a single word and prints the result.
func (h *InputHandler) handleInput(word string) {
	h.requestCount++
	word = utils.NormalizeWord(word)
	if !utils.IsValidWord(word, h.maxLength) {
		log.Errorf("Not a word (or longer than %d characters): %q", h.maxLength, word)
		return
	}

	start := time.Now()
	res, err := h.splitter.Split(word)
	if err != nil {
		log.Errorf("Splitting %q: %v", word, err)
		return
	}
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), word)

	fmt.Fprintf(h.out, "%s  %s\n", h.styles.split(res.Word),
		h.styles.dim.Render(fmt.Sprintf("(%s, %s candidates)", res.Ranker, FormatWithCommas(res.Candidates))))

	if !h.showTree {
		return
	}
	tree, err := h.splitter.Tree(word)
	if err != nil {
		log.Errorf("Building tree for %q: %v", word, err)
		return
	}
	fmt.Fprint(h.out, h.styles.tree(tree, res.Word))
}
