package trie

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrCorruptSnapshot is returned when a serialized dictionary cannot be restored.
var ErrCorruptSnapshot = errors.New("trie: corrupt snapshot")

// snapshotVersion is bumped whenever the encoded layout changes.
const snapshotVersion = 1

type snapshotNode struct {
	Sym      rune    `msgpack:"s"`
	Terminal bool    `msgpack:"t,omitempty"`
	Keys     []rune  `msgpack:"k,omitempty"`
	Children []int32 `msgpack:"c,omitempty"`
}

type snapshot struct {
	Version int            `msgpack:"v"`
	Size    int            `msgpack:"n"`
	Nodes   []snapshotNode `msgpack:"a"`
}

// MarshalMsgpack encodes the arena as is; child lists are sorted by symbol so equal
// dictionaries built in the same insertion order encode identically.
func (d *Dictionary) MarshalMsgpack() ([]byte, error) {
	s := snapshot{
		Version: snapshotVersion,
		Size:    d.size,
		Nodes:   make([]snapshotNode, len(d.nodes)),
	}
	for i, n := range d.nodes {
		sn := snapshotNode{Sym: n.sym, Terminal: n.terminal}
		for _, k := range sortedKeys(n.next) {
			sn.Keys = append(sn.Keys, k)
			sn.Children = append(sn.Children, n.next[k])
		}
		s.Nodes[i] = sn
	}
	return msgpack.Marshal(&s)
}

// UnmarshalMsgpack restores a dictionary written by MarshalMsgpack. Handles are checked so a
// damaged file cannot produce cycles or shared children.
func (d *Dictionary) UnmarshalMsgpack(data []byte) error {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if s.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, s.Version)
	}
	if len(s.Nodes) == 0 {
		return fmt.Errorf("%w: missing root", ErrCorruptSnapshot)
	}

	nodes := make([]node, len(s.Nodes))
	owned := make([]bool, len(s.Nodes))
	terminals := 0
	for i, sn := range s.Nodes {
		if len(sn.Keys) != len(sn.Children) {
			return fmt.Errorf("%w: node %d has %d keys and %d children", ErrCorruptSnapshot, i, len(sn.Keys), len(sn.Children))
		}
		n := node{sym: sn.Sym, terminal: sn.Terminal}
		if len(sn.Keys) > 0 {
			n.next = make(map[rune]int32, len(sn.Keys))
		}
		for j, k := range sn.Keys {
			c := sn.Children[j]
			if int(c) <= i || int(c) >= len(s.Nodes) {
				return fmt.Errorf("%w: node %d points at invalid handle %d", ErrCorruptSnapshot, i, c)
			}
			if owned[c] {
				return fmt.Errorf("%w: node %d has more than one parent", ErrCorruptSnapshot, c)
			}
			if s.Nodes[c].Sym != k {
				return fmt.Errorf("%w: node %d symbol mismatch", ErrCorruptSnapshot, c)
			}
			owned[c] = true
			n.next[k] = c
		}
		if sn.Terminal {
			terminals++
		}
		nodes[i] = n
	}
	for i := 1; i < len(owned); i++ {
		if !owned[i] {
			return fmt.Errorf("%w: node %d is unreachable", ErrCorruptSnapshot, i)
		}
	}
	if terminals != s.Size {
		return fmt.Errorf("%w: size %d does not match %d terminals", ErrCorruptSnapshot, s.Size, terminals)
	}
	if nodes[root].terminal {
		return fmt.Errorf("%w: root marked terminal", ErrCorruptSnapshot)
	}

	d.nodes = nodes
	d.size = s.Size
	return nil
}
