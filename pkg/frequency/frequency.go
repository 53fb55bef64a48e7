// Package frequency provides corpus-count lookups for frequency-aware ranking.
//
// Every backend implements Provider. Index keeps counts in memory in a patricia trie, Store
// persists them in badger, Gse reads them from a gse dictionary and Cached puts an LRU in
// front of any of them. Keys are folded with utils.FoldKey on every path in and out.
package frequency

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bastiangx/wordsplit/internal/utils"
)

// Provider returns the corpus count of text. known=false means the text is absent; err is
// reserved for failures of the backend itself.
type Provider interface {
	Frequency(text string) (count uint64, known bool, err error)
}

// Entry is one stored record.
type Entry struct {
	Count uint64 `msgpack:"c"`
	POS   string `msgpack:"p,omitempty"`
}

// ErrBadLine is wrapped by Scan for lines that are not "word [count [pos]]".
var ErrBadLine = errors.New("frequency: malformed line")

// Scan reads a count list, one "word [count [pos]]" entry per line separated by blanks or
// tabs. Empty lines and lines starting with '#' are skipped. A missing count means 1.
func Scan(r io.Reader, fn func(word string, e Entry) error) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		e := Entry{Count: 1}
		if len(fields) > 1 {
			c, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				// gse dictionaries carry float frequencies
				f, ferr := strconv.ParseFloat(fields[1], 64)
				if ferr != nil || !(f >= 0 && f < math.MaxUint64) {
					return n, fmt.Errorf("%w %d: %q", ErrBadLine, lineNo, line)
				}
				c = uint64(f)
			}
			e.Count = c
		}
		if len(fields) > 2 {
			e.POS = fields[2]
		}
		if err := fn(utils.FoldKey(fields[0]), e); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("frequency: read: %w", err)
	}
	return n, nil
}
