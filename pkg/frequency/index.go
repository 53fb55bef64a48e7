package frequency

import (
	"io"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/bastiangx/wordsplit/internal/utils"
)

// Index is an in-memory count table backed by a patricia trie. It is safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	trie  *patricia.Trie
	count int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{trie: patricia.NewTrie()}
}

// Add increases the count of word by n.
func (x *Index) Add(word string, n uint64) {
	key := patricia.Prefix(utils.FoldKey(word))
	x.mu.Lock()
	defer x.mu.Unlock()
	if item := x.trie.Get(key); item != nil {
		x.trie.Set(key, item.(uint64)+n)
		return
	}
	x.trie.Insert(key, n)
	x.count++
}

// ReadFrom adds every entry of a count list, see Scan.
func (x *Index) ReadFrom(r io.Reader) (int, error) {
	return Scan(r, func(word string, e Entry) error {
		x.Add(word, e.Count)
		return nil
	})
}

func (x *Index) Frequency(text string) (uint64, bool, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	item := x.trie.Get(patricia.Prefix(utils.FoldKey(text)))
	if item == nil {
		return 0, false, nil
	}
	return item.(uint64), true, nil
}

// Len returns the number of distinct words.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.count
}
