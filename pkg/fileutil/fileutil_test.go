package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "report.json")

	if err := WriteFile(path, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("expected file to exist: %v", readErr)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected file contents: %s", data)
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("second call should be a no-op, got: %v", err)
	}
}
