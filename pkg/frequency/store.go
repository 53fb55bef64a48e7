package frequency

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/wordsplit/internal/logger"
	"github.com/bastiangx/wordsplit/internal/utils"
)

const (
	keyPrefix         = "f/"
	defaultGCInterval = 5 * time.Minute
	gcDiscardRatio    = 0.5
)

// StoreOptions configures a badger-backed Store.
type StoreOptions struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// GCInterval is the value-log GC period; zero means five minutes.
	GCInterval time.Duration
	Logger     *log.Logger
}

// Store keeps counts in badger, msgpack-encoded under "f/<word>".
// A background goroutine runs value-log GC until Close.
type Store struct {
	db  *badger.DB
	log *log.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// OpenStore opens or creates a store.
func OpenStore(opts StoreOptions) (*Store, error) {
	l := opts.Logger
	if l == nil {
		l = logger.New("freq")
	}
	bopts := badger.DefaultOptions(opts.Path).WithLogger(logger.ForBadger(l))
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(logger.ForBadger(l))
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("frequency: open store %q: %w", opts.Path, err)
	}

	s := &Store{db: db, log: l, done: make(chan struct{})}
	if !opts.InMemory {
		interval := opts.GCInterval
		if interval <= 0 {
			interval = defaultGCInterval
		}
		s.wg.Add(1)
		go s.runGC(interval)
	}
	return s, nil
}

func (s *Store) runGC(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// one rewrite per tick; ErrNoRewrite just means nothing was worth collecting
			if err := s.db.RunValueLogGC(gcDiscardRatio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.log.Warn("Value log GC failed", "err", err)
			}
		case <-s.done:
			return
		}
	}
}

func storeKey(word string) []byte {
	return []byte(keyPrefix + utils.FoldKey(word))
}

// Put stores e for word, replacing any previous entry.
func (s *Store) Put(word string, e Entry) error {
	val, err := msgpack.Marshal(&e)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storeKey(word), val)
	})
}

// Add increases the count of word by n inside one transaction.
func (s *Store) Add(word string, n uint64) error {
	key := storeKey(word)
	return s.db.Update(func(txn *badger.Txn) error {
		var e Entry
		item, err := txn.Get(key)
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error { return msgpack.Unmarshal(val, &e) }); err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}
		e.Count += n
		val, err := msgpack.Marshal(&e)
		if err != nil {
			return err
		}
		return txn.Set(key, val)
	})
}

// Get returns the stored entry of word.
func (s *Store) Get(word string) (Entry, bool, error) {
	var e Entry
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(word))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error { return msgpack.Unmarshal(val, &e) })
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("frequency: get %q: %w", word, err)
	}
	return e, found, nil
}

func (s *Store) Frequency(text string) (uint64, bool, error) {
	e, ok, err := s.Get(text)
	return e.Count, ok, err
}

// Import writes every entry of a count list with a write batch. Later lines for the same word
// replace earlier ones.
func (s *Store) Import(r io.Reader) (int, error) {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	n, err := Scan(r, func(word string, e Entry) error {
		val, err := msgpack.Marshal(&e)
		if err != nil {
			return err
		}
		return wb.Set([]byte(keyPrefix+word), val)
	})
	if err != nil {
		return n, err
	}
	if err := wb.Flush(); err != nil {
		return n, fmt.Errorf("frequency: import flush: %w", err)
	}
	s.log.Info("Imported frequencies", "entries", n)
	return n, nil
}

// Len counts stored words.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Close stops the GC goroutine and closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
