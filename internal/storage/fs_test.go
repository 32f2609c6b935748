package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/fdn/internal/apperr"
)

func TestRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "My File.txt")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFS()
	got, err := fs.Rename(src, "My_File.txt")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	want := filepath.Join(dir, "My_File.txt")
	if got != want {
		t.Errorf("Rename = %q, want %q", got, want)
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "data" {
		t.Errorf("renamed content = %q, %v", data, err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Error("source still exists after rename")
	}
}

func TestRename_MissingSource(t *testing.T) {
	fs := NewFS()
	_, err := fs.Rename(filepath.Join(t.TempDir(), "nope"), "x")
	if !errors.Is(err, apperr.ErrRename) {
		t.Fatalf("err = %v, want ErrRename", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("native error should be preserved: %v", err)
	}
}

func TestRename_RejectsPaths(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	_ = os.WriteFile(src, nil, 0o644)

	fs := NewFS()
	for _, name := range []string{"", ".", "..", "../escape", "sub/x"} {
		if _, err := fs.Rename(src, name); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("Rename(%q) err = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestKind(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	_ = os.WriteFile(file, nil, 0o644)

	fs := NewFS()
	if k, err := fs.Kind(file); err != nil || k != KindFile {
		t.Errorf("Kind(file) = %v, %v", k, err)
	}
	if k, err := fs.Kind(dir); err != nil || k != KindDir {
		t.Errorf("Kind(dir) = %v, %v", k, err)
	}
	if _, err := fs.Kind(filepath.Join(dir, "missing")); err == nil {
		t.Error("Kind(missing) should fail")
	}
}
