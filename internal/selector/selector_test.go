package selector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/fdn/internal/apperr"
	"github.com/starford/fdn/internal/testutil"
)

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestSortDeepestFirst(t *testing.T) {
	paths := []string{"/r/a", "/r/a/b"}
	SortDeepestFirst(paths)
	assert.Equal(t, []string{"/r/a/b", "/r/a"}, paths)

	paths = []string{"/r/a", "/r/c", "/r/a/b", "/r/a-b", "/r/a/b/c"}
	SortDeepestFirst(paths)
	assert.Equal(t, []string{"/r/c", "/r/a/b/c", "/r/a/b", "/r/a-b", "/r/a"}, paths)
}

func TestSelectFilesDefaultDepth(t *testing.T) {
	root := testutil.TestTree(t, "b.txt", "a.txt", "sub/deep.txt", ".hidden")

	got, err := Select(root, Options{MaxDepth: 1, Type: TypeFile})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, rel(t, root, got))
}

func TestSelectFilesDeeper(t *testing.T) {
	root := testutil.TestTree(t, "a.txt", "sub/deep.txt", "sub/x/deeper.txt")

	got, err := Select(root, Options{MaxDepth: 2, Type: TypeFile})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/deep.txt"}, rel(t, root, got))

	got, err = Select(root, Options{MaxDepth: 0, Type: TypeFile})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectDirectoriesExcludesRoot(t *testing.T) {
	root := testutil.TestTree(t, "a/", "a/b/", "c/", "file.txt")

	got, err := Select(root, Options{MaxDepth: 3, Type: TypeDirectory})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a/b", "a"}, rel(t, root, got))
}

func TestSelectHidden(t *testing.T) {
	root := testutil.TestTree(t, ".git/config", ".env", "visible.txt")

	got, err := Select(root, Options{MaxDepth: 2, Type: TypeFile})
	require.NoError(t, err)
	assert.Equal(t, []string{"visible.txt"}, rel(t, root, got))

	got, err = Select(root, Options{MaxDepth: 2, Type: TypeFile, IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".env", ".git/config", "visible.txt"}, rel(t, root, got))
}

func TestSelectExcludePrefix(t *testing.T) {
	root := testutil.TestTree(t, "keep/a.txt", "skip/b.txt", "skipper/c.txt")

	got, err := Select(root, Options{
		MaxDepth: 2,
		Type:     TypeFile,
		Excludes: []string{filepath.Join(root, "skip")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep/a.txt", "skipper/c.txt"}, rel(t, root, got))
}

func TestSelectExcludeGlob(t *testing.T) {
	root := testutil.TestTree(t, "a.txt", "b.log", "sub/c.log", "sub/d.txt")

	got, err := Select(root, Options{
		MaxDepth: 2,
		Type:     TypeFile,
		Excludes: []string{"**/*.log"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/d.txt"}, rel(t, root, got))
}

func TestSelectFileRoot(t *testing.T) {
	root := testutil.TestTree(t, "only.txt")
	file := filepath.Join(root, "only.txt")

	got, err := Select(file, Options{MaxDepth: 1, Type: TypeFile})
	require.NoError(t, err)
	assert.Equal(t, []string{file}, got)

	_, err = Select(file, Options{MaxDepth: 1, Type: TypeDirectory})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestSelectMissingRoot(t *testing.T) {
	_, err := Select(filepath.Join(t.TempDir(), "nope"), Options{MaxDepth: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSelectSkipsSymlinks(t *testing.T) {
	root := testutil.TestTree(t, "real.txt")
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Select(root, Options{MaxDepth: 1, Type: TypeFile})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, rel(t, root, got))
}

func TestSelectSymlinkedRoot(t *testing.T) {
	root := testutil.TestTree(t, "My File.txt", "sub/")
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(root, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Select(link, Options{MaxDepth: 1, Type: TypeFile})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(link, "My File.txt")}, got)

	got, err = Select(link, Options{MaxDepth: 1, Type: TypeDirectory})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(link, "sub")}, got)

	got, err = Select(link, Options{
		MaxDepth: 1,
		Type:     TypeFile,
		Excludes: []string{filepath.Join(link, "My File.txt")},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{"f": TypeFile, "file": TypeFile, "d": TypeDirectory, "DIR": TypeDirectory} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseType("x")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestHasPathPrefix(t *testing.T) {
	sep := string(os.PathSeparator)
	a := sep + filepath.Join("r", "a")
	assert.True(t, hasPathPrefix(a, a))
	assert.True(t, hasPathPrefix(filepath.Join(a, "b"), a))
	assert.False(t, hasPathPrefix(a+"b", a))
}
