package segment

import (
	"errors"
	"fmt"
)

// ErrBrokenInvariant is returned when a node would not reconstruct the tree's word.
var ErrBrokenInvariant = errors.New("segment: segmentation does not reconstruct word")

// NodeID addresses a node inside one Tree.
type NodeID int

// Root is the ID of the root node of every tree.
const Root NodeID = 0

type treeNode struct {
	word     SegmentedWord
	parent   NodeID
	children []NodeID
	complete bool
}

// Tree is the search tree over one input word, stored as an arena. The root always holds the
// unsplit word, so a tree is never empty.
type Tree struct {
	word  string
	nodes []treeNode
}

// NewTree creates a tree whose root is the trivial segmentation of word.
func NewTree(word string) *Tree {
	return &Tree{
		word:  word,
		nodes: []treeNode{{word: Trivial(word), parent: -1, complete: true}},
	}
}

// Word returns the input word the tree was built for.
func (t *Tree) Word() string {
	return t.word
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Add attaches w under parent. complete marks a node whose every part is a settled morph, as
// opposed to one whose last part is a remainder that is not a morph by itself.
func (t *Tree) Add(parent NodeID, w SegmentedWord, complete bool) (NodeID, error) {
	if !t.valid(parent) {
		return -1, fmt.Errorf("segment: unknown parent node %d", parent)
	}
	if got := w.Word(); got != t.word {
		return -1, fmt.Errorf("%w: %q from %q", ErrBrokenInvariant, got, t.word)
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{word: w.Clone(), parent: parent, complete: complete})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id, nil
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Segmentation returns a copy of the node's segmentation.
func (t *Tree) Segmentation(id NodeID) SegmentedWord {
	return t.nodes[id].word.Clone()
}

// Parts returns the number of morphs at id without copying.
func (t *Tree) Parts(id NodeID) int {
	return t.nodes[id].word.Len()
}

// Complete reports whether the node's segmentation has no unsplit remainder.
func (t *Tree) Complete(id NodeID) bool {
	return t.nodes[id].complete
}

// Parent returns the parent of id, or -1 for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns the children of id in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), t.nodes[id].children...)
}

// Walk visits every node depth-first, left to right, parents before children. Returning false
// from fn stops the walk.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{id: Root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.id, f.depth) {
			return
		}
		kids := t.nodes[f.id].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: kids[i], depth: f.depth + 1})
		}
	}
}

// IsLeaf reports whether id is a ranking candidate: the root, or a complete node. A complete
// node may still have children that split its last part further.
func (t *Tree) IsLeaf(id NodeID) bool {
	return id == Root || t.nodes[id].complete
}

// Leaves returns the ranking candidates in traversal order: the root first, since the unsplit
// word is always a fallback, then every complete node.
func (t *Tree) Leaves() []NodeID {
	var out []NodeID
	t.Walk(func(id NodeID, _ int) bool {
		if t.IsLeaf(id) {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Equal reports whether both trees have the same shape, segmentations and child order.
func (t *Tree) Equal(o *Tree) bool {
	if t.word != o.word || len(t.nodes) != len(o.nodes) {
		return false
	}
	for i := range t.nodes {
		a, b := t.nodes[i], o.nodes[i]
		if a.parent != b.parent || a.complete != b.complete || !a.word.Equal(b.word) {
			return false
		}
		if len(a.children) != len(b.children) {
			return false
		}
		for j := range a.children {
			if a.children[j] != b.children[j] {
				return false
			}
		}
	}
	return true
}
