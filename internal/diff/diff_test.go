package diff

import (
	"bytes"
	"os"
	"regexp"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestComparePlain(t *testing.T) {
	c := NewComparer(Plain, false)
	tests := []struct{ o, e string }{
		{"My File.txt", "My_File.txt"},
		{"_Name_", "Name"},
		{"archive.tar.gz", "archive.tar.gz"},
		{"noext", "with.ext"},
		{".bashrc", "bashrc"},
	}
	for _, tt := range tests {
		o, e := c.Compare(tt.o, tt.e)
		assert.Equal(t, tt.o, o)
		assert.Equal(t, tt.e, e)
	}
}

func TestCompareAligned(t *testing.T) {
	c := NewComparer(Aligned, false)

	o, e := c.Compare("ab.txt", "aXYb.txt")
	assert.Equal(t, "a  b.txt", o)
	assert.Equal(t, "aXYb.txt", e)

	o, e = c.Compare("a__b", "a_b")
	assert.Equal(t, runewidth.StringWidth(o), runewidth.StringWidth(e))
	assert.Equal(t, "a_ b", e)
}

func TestCompareAlignedWideRunes(t *testing.T) {
	c := NewComparer(Aligned, false)
	o, e := c.Compare("文件 名.md", "文件_名.md")
	assert.Equal(t, runewidth.StringWidth(o), runewidth.StringWidth(e))

	o, e = c.Compare("報告.txt", "report.txt")
	assert.Equal(t, runewidth.StringWidth(o), runewidth.StringWidth(e))
}

func TestCompareExtensionOnOneSide(t *testing.T) {
	c := NewComparer(Aligned, false)
	o, e := c.Compare("name", "name.txt")
	assert.Equal(t, runewidth.StringWidth(o), runewidth.StringWidth(e))
	assert.Equal(t, "name.txt", e)
}

func TestCompareColor(t *testing.T) {
	plain := NewComparer(Plain, false)
	color := NewComparer(Plain, true)

	po, pe := plain.Compare("My File.txt", "My_File.txt")
	co, ce := color.Compare("My File.txt", "My_File.txt")

	assert.Contains(t, co, "\x1b[")
	assert.Contains(t, ce, "\x1b[")
	assert.Equal(t, po, ansi.ReplaceAllString(co, ""))
	assert.Equal(t, pe, ansi.ReplaceAllString(ce, ""))

	same, _ := color.Compare("same", "same")
	assert.Equal(t, "same", same)
}

func TestPresenterShow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, NewComparer(Plain, false))

	require.NoError(t, p.Show("a b", "a_b", true))
	assert.Equal(t, "   a b\n==>a_b\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Show("a b", "a_b", false))
	assert.Equal(t, "   a b\n-->a_b\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Show("same", "same", true))
	assert.Empty(t, buf.String())
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, ColorEnabled("always", nil))
	assert.False(t, ColorEnabled("never", os.Stdout))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled("auto", os.Stdout))
}

func TestColorEnabledNotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, ColorEnabled("auto", f))
}
