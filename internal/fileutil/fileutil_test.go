package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestWriteFileAtomicCreatesParentAndReplaces(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.Join("/data", "nested", "out.json")

	if err := WriteFileAtomic(fs, path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(fs, path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("content mismatch: got %q, want %q", got, "second")
	}

	entries, err := afero.ReadDir(fs, filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the target file, found %v", names)
	}
}

func TestWriteFileAtomicOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	if err := WriteFileAtomic(afero.NewOsFs(), path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected mode: %v", info.Mode().Perm())
	}
	ok, err := Exists(afero.NewOsFs(), path)
	if err != nil || !ok {
		t.Fatalf("expected file to exist (err=%v)", err)
	}
}
