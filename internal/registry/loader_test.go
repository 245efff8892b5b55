package registry

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
}

func TestLoadDir_FiltersAndWalks(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.md", "# Alpha\nfirst")
	write(t, dir, "B.TXT", "second") // case-insensitive
	write(t, dir, "nested/c.rst", "third")
	write(t, dir, "empty.txt", "")
	write(t, dir, "blank.md", "\n \t\n\n")
	write(t, dir, "model.bin", "binary")
	write(t, dir, ".hidden/d.md", "skipped")

	docs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	sort.Strings(ids)
	want := []string{"B.TXT", "a.md", "nested/c.rst"}
	if len(ids) != len(want) {
		t.Fatalf("ids=%v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids=%v, want %v", ids, want)
		}
	}
}

func TestLoadDir_DocumentFields(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "guide.md", "hello world")
	docs, err := LoadDir(dir)
	if err != nil || len(docs) != 1 {
		t.Fatalf("docs=%v err=%v", docs, err)
	}
	d := docs[0]
	if d.Title != "guide" || d.Text != "hello world" || d.Metadata["ext"] != ".md" {
		t.Fatalf("unexpected doc: %+v", d)
	}
	if d.Metadata["source"] != filepath.Join(dir, "guide.md") {
		t.Fatalf("source=%q", d.Metadata["source"])
	}
}

func TestLoadDir_Missing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestLoadDir_OnlyBlankFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "blank.txt", "\n\n")
	docs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("blank file returned as a document: %+v", docs)
	}
}
