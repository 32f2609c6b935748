package registry

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/unicode/runenames"
)

// List renders the requested tables to w, all of them when kinds is empty.
func (r *Registry) List(w io.Writer, kinds ...Kind) error {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	for _, k := range kinds {
		t, err := r.table(k)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) table(k Kind) (table.Writer, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(k.String())
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	switch k {
	case KindSeparator:
		t.AppendHeader(table.Row{"ID", "Value", "Description"})
		seps, err := r.store.Separators()
		if err != nil {
			return nil, err
		}
		for _, s := range seps {
			t.AppendRow(table.Row{strconv.FormatInt(s.ID, 10), Escape(s.Value), Describe(s.Value)})
		}
	case KindToSepWord:
		t.AppendHeader(table.Row{"ID", "Value", "Description"})
		words, err := r.store.ToSepWords()
		if err != nil {
			return nil, err
		}
		for _, w := range words {
			t.AppendRow(table.Row{strconv.FormatInt(w.ID, 10), Escape(w.Value), Describe(w.Value)})
		}
	case KindTermWord:
		t.AppendHeader(table.Row{"ID", "Key", "Value"})
		terms, err := r.store.TermWords()
		if err != nil {
			return nil, err
		}
		for _, w := range terms {
			t.AppendRow(table.Row{strconv.FormatInt(w.ID, 10), Escape(w.Key), Escape(w.Value)})
		}
	default:
		return nil, fmt.Errorf("registry: unknown table %v", k)
	}
	return t, nil
}

// Escape shows carriage returns and newlines as \r and \n.
func Escape(s string) string {
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(s)
}

// Describe lists the Unicode names of the characters in s, comma separated.
// Characters without a name are skipped.
func Describe(s string) string {
	names := make([]string, 0, len(s))
	for _, r := range s {
		if n := runenames.Name(r); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ",")
}
