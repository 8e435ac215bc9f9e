package term

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	grid := "░░░░\n████"

	path, err := SaveSnapshot(dir, grid)
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("snapshot written to %q, want dir %q", path, dir)
	}
	if !strings.HasPrefix(filepath.Base(path), "termcam-") || !strings.HasSuffix(path, ".txt") {
		t.Errorf("unexpected snapshot name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(data) != grid+"\n" {
		t.Errorf("snapshot content = %q, want grid with trailing newline", data)
	}
}

func TestSaveSnapshotUniqueNames(t *testing.T) {
	dir := t.TempDir()
	a, err := SaveSnapshot(dir, "x")
	if err != nil {
		t.Fatal(err)
	}
	b, err := SaveSnapshot(dir, "x")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two snapshots share the same path %q", a)
	}
}

func TestSaveSnapshotEmptyGrid(t *testing.T) {
	if _, err := SaveSnapshot(t.TempDir(), ""); err == nil {
		t.Error("SaveSnapshot with empty grid should fail")
	}
}
