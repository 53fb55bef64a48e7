package segment

import (
	"errors"
	"fmt"
	"strings"
)

const (
	joiner    = '+'
	openLink  = '('
	closeLink = ')'
	reserved  = "+()"
)

// ErrMalformedNotation is matched by every error returned from Parse.
var ErrMalformedNotation = errors.New("segment: malformed notation")

// NotationError points at the byte that made a notation string unparsable.
type NotationError struct {
	Input  string
	Pos    int
	Reason string
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("segment: malformed notation %q at byte %d: %s", e.Input, e.Pos, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedNotation) hold.
func (e *NotationError) Is(target error) bool {
	return target == ErrMalformedNotation
}

// Format writes w as morphs joined by '+', each linking morpheme in parentheses right after the
// morph it follows: Akt+ion(s)+plan.
func Format(w SegmentedWord) string {
	var sb strings.Builder
	for i, m := range w.Morphs {
		if i > 0 {
			sb.WriteByte(joiner)
		}
		sb.WriteString(m.Text)
		if m.Link != "" {
			sb.WriteByte(openLink)
			sb.WriteString(m.Link)
			sb.WriteByte(closeLink)
		}
	}
	return sb.String()
}

// Parse reads the notation produced by Format.
func Parse(s string) (SegmentedWord, error) {
	fail := func(pos int, reason string) (SegmentedWord, error) {
		return SegmentedWord{}, &NotationError{Input: s, Pos: pos, Reason: reason}
	}
	if s == "" {
		return fail(0, "empty input")
	}

	var (
		morphs    []Morph
		cur       Morph
		start     = 0  // byte offset where the current text or link began
		linkOpen  = -1 // offset of the unclosed '(' if any
		linkDone  = false
		textBytes strings.Builder
		linkBytes strings.Builder
	)
	flush := func(pos int) error {
		if textBytes.Len() == 0 {
			return &NotationError{Input: s, Pos: pos, Reason: "empty morph"}
		}
		cur.Text = textBytes.String()
		cur.Link = linkBytes.String()
		morphs = append(morphs, cur)
		cur = Morph{}
		textBytes.Reset()
		linkBytes.Reset()
		linkDone = false
		return nil
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case linkOpen >= 0:
			switch c {
			case closeLink:
				if linkBytes.Len() == 0 {
					return fail(i, "empty linking morpheme")
				}
				linkOpen = -1
				linkDone = true
			case openLink:
				return fail(i, "nested '('")
			case joiner:
				return fail(linkOpen, "unbalanced '('")
			default:
				linkBytes.WriteByte(c)
			}
		case c == joiner:
			if err := flush(i); err != nil {
				return SegmentedWord{}, err
			}
			start = i + 1
		case c == openLink:
			if linkDone {
				return fail(i, "second linking morpheme")
			}
			if textBytes.Len() == 0 {
				return fail(i, "linking morpheme without morph")
			}
			linkOpen = i
		case c == closeLink:
			return fail(i, "unbalanced ')'")
		default:
			if linkDone {
				return fail(i, "text after linking morpheme")
			}
			textBytes.WriteByte(c)
		}
	}
	if linkOpen >= 0 {
		return fail(linkOpen, "unbalanced '('")
	}
	if err := flush(start); err != nil {
		return SegmentedWord{}, err
	}
	return SegmentedWord{Morphs: morphs}, nil
}
