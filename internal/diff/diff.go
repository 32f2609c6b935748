// Package diff renders an original and an edited name side by side for the
// terminal, highlighting the characters that changed.
package diff

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/starford/fdn/internal/rules"
)

// Mode selects how the two rendered names are laid out.
type Mode int

const (
	// Plain concatenates the compared pieces without padding.
	Plain Mode = iota
	// Aligned pads each changed segment to the display width of its
	// counterpart so both lines share column boundaries.
	Aligned
)

// Comparer renders name pairs. The zero value is a plain, uncolored comparer.
type Comparer struct {
	Mode  Mode
	Color bool

	del lipgloss.Style
	ins lipgloss.Style
}

// NewComparer returns a Comparer. When color is set, deletions render red
// and insertions green using ANSI escapes.
func NewComparer(mode Mode, color bool) Comparer {
	c := Comparer{Mode: mode, Color: color}
	if color {
		r := lipgloss.NewRenderer(io.Discard)
		r.SetColorProfile(termenv.ANSI)
		c.del = r.NewStyle().Foreground(lipgloss.Color("1"))
		c.ins = r.NewStyle().Foreground(lipgloss.Color("2"))
	}
	return c
}

// Compare returns the rendered original and edited names. Stems and
// extensions are compared independently and rejoined with "." on each side
// that has an extension.
func (c Comparer) Compare(original, edited string) (string, string) {
	oStem, oExt, oHas := rules.SplitName(original, true)
	eStem, eExt, eHas := rules.SplitName(edited, true)

	left, right := c.piece(oStem, eStem)
	if !oHas && !eHas {
		return left, right
	}
	lExt, rExt := c.piece(oExt, eExt)
	if oHas {
		left += "." + lExt
	} else if c.Mode == Aligned {
		left += " " + lExt
	}
	if eHas {
		right += "." + rExt
	} else if c.Mode == Aligned {
		right += " " + rExt
	}
	return left, right
}

func (c Comparer) piece(a, b string) (string, string) {
	ar, br := chars(a), chars(b)
	m := difflib.NewMatcherWithJunk(ar, br, false, nil)

	var lo, ro strings.Builder
	for _, op := range m.GetOpCodes() {
		l := strings.Join(ar[op.I1:op.I2], "")
		r := strings.Join(br[op.J1:op.J2], "")

		var lpad, rpad string
		if c.Mode == Aligned {
			lw, rw := runewidth.StringWidth(l), runewidth.StringWidth(r)
			if lw < rw {
				lpad = strings.Repeat(" ", rw-lw)
			} else {
				rpad = strings.Repeat(" ", lw-rw)
			}
		}

		if op.Tag == 'e' {
			lo.WriteString(l)
			ro.WriteString(r)
		} else {
			lo.WriteString(c.paint(c.del, l))
			ro.WriteString(c.paint(c.ins, r))
		}
		lo.WriteString(lpad)
		ro.WriteString(rpad)
	}
	return lo.String(), ro.String()
}

func (c Comparer) paint(style lipgloss.Style, s string) string {
	if !c.Color || s == "" {
		return s
	}
	return style.Render(s)
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
