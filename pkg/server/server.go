package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/wordsplit/internal/logger"
	"github.com/bastiangx/wordsplit/internal/utils"
	"github.com/bastiangx/wordsplit/pkg/decompound"
	"github.com/bastiangx/wordsplit/pkg/rank"
	"github.com/bastiangx/wordsplit/pkg/segment"
)

// Splitter is what the server needs from a decompound.Decompounder.
type Splitter interface {
	Split(word string) (decompound.Result, error)
	Tree(word string) (*segment.Tree, error)
	Rank(tree *segment.Tree) (segment.SegmentedWord, error)
	DecompoundAll(ctx context.Context, words []string, workers int) ([]decompound.Result, error)
}

// Options bounds what a single request may ask for.
type Options struct {
	MaxWordLength int
	BatchWorkers  int
	MaxBatch      int
	// Morphemes is reported in the ready and health messages.
	Morphemes int
	Logger    *log.Logger
}

// Server handles the IPC for compound splitting
type Server struct {
	splitter Splitter
	opts     Options
	dec      *msgpack.Decoder
	out      *bufio.Writer
	enc      *msgpack.Encoder
	log      *log.Logger
	requests int64
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(splitter Splitter, r io.Reader, w io.Writer, opts Options) *Server {
	if opts.MaxWordLength <= 0 {
		opts.MaxWordLength = 128
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = 4
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = 1024
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("server")
	}
	out := bufio.NewWriter(w)
	return &Server{
		splitter: splitter,
		opts:     opts,
		dec:      msgpack.NewDecoder(bufio.NewReader(r)),
		out:      out,
		enc:      msgpack.NewEncoder(out),
		log:      opts.Logger,
	}
}

// Start announces readiness and serves requests until the input ends or ctx is done.
// A clean end of input returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting Server.")
	if err := s.send(StatusResponse{Status: "ready", Morphemes: s.opts.Morphemes}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed", "requests", s.requests)
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return fmt.Errorf("server: read request: %w", err)
		}
		s.requests++
		if err := s.handle(ctx, raw); err != nil {
			return err
		}
	}
}

func (s *Server) handle(ctx context.Context, raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid request", 400)
	}

	switch strings.ToLower(req.Action) {
	case "", ActionSplit:
		return s.handleSplit(req)
	case ActionTree:
		return s.handleTree(req)
	case ActionBatch:
		return s.handleBatch(ctx, req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok", Morphemes: s.opts.Morphemes, Requests: s.requests})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// checkWord normalizes w and reports why it cannot be split, if it cannot.
func (s *Server) checkWord(w string) (string, string) {
	w = utils.NormalizeWord(w)
	switch {
	case w == "":
		return w, "missing 'w' parameter"
	case !utils.IsValidWord(w, s.opts.MaxWordLength):
		return w, fmt.Sprintf("invalid word %q (letters, digits, hyphen and apostrophe only, at most %d characters)", w, s.opts.MaxWordLength)
	}
	return w, ""
}

func (s *Server) handleSplit(req Request) error {
	word, problem := s.checkWord(req.Word)
	if problem != "" {
		s.log.Debug("Rejected word", "id", req.ID, "reason", problem)
		return s.sendError(req.ID, problem, 400)
	}
	start := time.Now()
	res, err := s.splitter.Split(word)
	if err != nil {
		return s.sendFailure(req.ID, err)
	}
	resp := toResponse(res)
	resp.ID = req.ID
	resp.TimeTaken = time.Since(start).Microseconds()
	return s.send(resp)
}

func (s *Server) handleTree(req Request) error {
	word, problem := s.checkWord(req.Word)
	if problem != "" {
		return s.sendError(req.ID, problem, 400)
	}
	start := time.Now()
	tree, err := s.splitter.Tree(word)
	if err != nil {
		return s.sendFailure(req.ID, err)
	}
	best, err := s.splitter.Rank(tree)
	if err != nil {
		return s.sendFailure(req.ID, err)
	}
	return s.send(TreeResponse{
		ID:        req.ID,
		Nodes:     treeNodes(tree),
		Best:      best.String(),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleBatch(ctx context.Context, req Request) error {
	if len(req.Words) == 0 {
		return s.sendError(req.ID, "missing 'ws' parameter", 400)
	}
	if len(req.Words) > s.opts.MaxBatch {
		return s.sendError(req.ID, fmt.Sprintf("batch of %d words exceeds %d", len(req.Words), s.opts.MaxBatch), 400)
	}
	words := make([]string, len(req.Words))
	for i, w := range req.Words {
		word, problem := s.checkWord(w)
		if problem != "" {
			return s.sendError(req.ID, fmt.Sprintf("word %d: %s", i, problem), 400)
		}
		words[i] = word
	}

	start := time.Now()
	results, err := s.splitter.DecompoundAll(ctx, words, s.opts.BatchWorkers)
	if err != nil {
		return s.sendFailure(req.ID, err)
	}
	resp := BatchResponse{ID: req.ID, Results: make([]SplitResponse, len(results))}
	for i, res := range results {
		resp.Results[i] = toResponse(res)
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return s.send(resp)
}

func toResponse(res decompound.Result) SplitResponse {
	parts := make([]Part, len(res.Word.Morphs))
	for i, m := range res.Word.Morphs {
		parts[i] = Part{Morph: m.Text, Link: m.Link}
	}
	return SplitResponse{
		Notation:   res.Word.String(),
		Parts:      parts,
		Candidates: res.Candidates,
		Ranker:     res.Ranker,
		Cached:     res.Cached,
	}
}

func treeNodes(tree *segment.Tree) []TreeNode {
	nodes := make([]TreeNode, 0, tree.Len())
	tree.Walk(func(id segment.NodeID, depth int) bool {
		nodes = append(nodes, TreeNode{
			ID:       int(id),
			Parent:   int(tree.Parent(id)),
			Depth:    depth,
			Notation: tree.Segmentation(id).String(),
			Complete: tree.Complete(id),
			Leaf:     tree.IsLeaf(id),
		})
		return true
	})
	return nodes
}

// sendFailure maps an operation error to a status code.
func (s *Server) sendFailure(id string, err error) error {
	switch {
	case errors.Is(err, decompound.ErrInvalidInput):
		return s.sendError(id, err.Error(), 400)
	case errors.Is(err, rank.ErrRankingUnavailable):
		s.log.Warn("Ranking unavailable", "id", id, "err", err)
		return s.sendError(id, err.Error(), 503)
	default:
		s.log.Error("Request failed", "id", id, "err", err)
		return s.sendError(id, err.Error(), 500)
	}
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// send encodes one response and flushes it, so clients never wait on a buffered reply.
func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Marshaling response: %v", err)
		return fmt.Errorf("server: write response: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("server: flush response: %w", err)
	}
	return nil
}
