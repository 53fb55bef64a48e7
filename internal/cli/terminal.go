package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bastiangx/wordsplit/pkg/segment"
)

// styles renders split output for one writer. Colors are dropped when the writer is not a
// terminal.
type styles struct {
	morph lipgloss.Style
	link  lipgloss.Style
	best  lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		morph: r.NewStyle().Foreground(lipgloss.Color("75")),
		link:  r.NewStyle().Foreground(lipgloss.Color("214")),
		best:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// split renders w in notation form with morphs and linking morphemes colored apart.
func (s styles) split(w segment.SegmentedWord) string {
	var sb strings.Builder
	for i, m := range w.Morphs {
		if i > 0 {
			sb.WriteString(s.dim.Render("+"))
		}
		sb.WriteString(s.morph.Render(m.Text))
		if m.Link != "" {
			sb.WriteString(s.link.Render("(" + m.Link + ")"))
		}
	}
	return sb.String()
}

// tree renders every node indented by depth. Complete nodes are checked and the node equal to
// best is starred.
func (s styles) tree(t *segment.Tree, best segment.SegmentedWord) string {
	var sb strings.Builder
	t.Walk(func(id segment.NodeID, depth int) bool {
		w := t.Segmentation(id)
		sb.WriteString(strings.Repeat("  ", depth))
		if depth > 0 {
			sb.WriteString(s.dim.Render("└ "))
		}
		sb.WriteString(s.split(w))
		if t.Complete(id) && id != segment.Root {
			sb.WriteString(s.dim.Render(" ✓"))
		}
		if w.Equal(best) {
			sb.WriteString(s.best.Render(" *"))
		}
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(char)
	}
	return result.String()
}
