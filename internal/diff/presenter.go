package diff

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	prefixOriginal = "   "
	prefixApplied  = "==>"
	prefixPreview  = "-->"
)

// Presenter writes the two-line view of a rename.
type Presenter struct {
	w   io.Writer
	cmp Comparer
}

// NewPresenter creates a Presenter writing to w.
func NewPresenter(w io.Writer, cmp Comparer) *Presenter {
	return &Presenter{w: w, cmp: cmp}
}

// Show prints nothing when the names are equal. Otherwise it prints the
// original name and, on the next line, the edited one marked "==>" when the
// rename was applied or "-->" when it is only a preview.
func (p *Presenter) Show(original, edited string, applied bool) error {
	if original == edited {
		return nil
	}
	o, e := p.cmp.Compare(original, edited)
	arrow := prefixPreview
	if applied {
		arrow = prefixApplied
	}
	_, err := fmt.Fprintf(p.w, "%s%s\n%s%s\n", prefixOriginal, o, arrow, e)
	return err
}

// ColorEnabled resolves a color setting of "always", "never" or "auto".
// Auto enables color when f is a terminal, NO_COLOR is unset and TERM is not
// "dumb".
func ColorEnabled(setting string, f *os.File) bool {
	switch strings.ToLower(setting) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
