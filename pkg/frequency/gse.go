package frequency

import (
	"fmt"

	"github.com/go-ego/gse"

	"github.com/bastiangx/wordsplit/internal/utils"
)

// Gse serves counts from a gse dictionary ("word freq pos" per line).
type Gse struct {
	seg *gse.Segmenter
}

// NewGse loads the given gse dictionary files. With no files the dictionary starts empty and
// is filled through Add.
func NewGse(files ...string) (*Gse, error) {
	seg := new(gse.Segmenter)
	if len(files) == 0 {
		seg.Dict = gse.NewDict()
		seg.Init()
		return &Gse{seg: seg}, nil
	}
	if err := seg.LoadDict(files...); err != nil {
		return nil, fmt.Errorf("frequency: load gse dictionary: %w", err)
	}
	return &Gse{seg: seg}, nil
}

// Add registers word with its count and part of speech.
func (g *Gse) Add(word string, count uint64, pos string) {
	g.seg.AddToken(utils.FoldKey(word), float64(count), pos)
}

func (g *Gse) Frequency(text string) (uint64, bool, error) {
	freq, _, ok := g.seg.Find(utils.FoldKey(text))
	if !ok || freq < 0 {
		return 0, false, nil
	}
	return uint64(freq), true, nil
}
