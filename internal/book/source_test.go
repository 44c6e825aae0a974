package book

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenPlainTextFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "Hello world this is a test."
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if got := src.ChapterCount(); got != 1 {
		t.Errorf("ChapterCount() = %d, want 1", got)
	}
	raw, err := src.RawChapter(0)
	if err != nil {
		t.Fatalf("RawChapter: %v", err)
	}
	if string(raw) != content {
		t.Errorf("RawChapter(0) = %q, want %q", raw, content)
	}
	if got := src.ChapterLocation(0); got != "" {
		t.Errorf("ChapterLocation(0) = %q, want empty", got)
	}
	if got := src.ChapterTitle(0); got != "notes.txt" {
		t.Errorf("ChapterTitle(0) = %q, want notes.txt", got)
	}
	if len(src.Resources()) != 0 {
		t.Errorf("Resources() = %v, want empty", src.Resources())
	}
}

func TestOpenDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.MD")
	if err := os.WriteFile(path, []byte("# One\nbody\n# Two\nbody\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	// Two chapters means the markdown format claimed the file.
	if got := src.ChapterCount(); got != 2 {
		t.Errorf("ChapterCount() = %d, want 2", got)
	}
}

func TestOpenNonexistent(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.epub")); err == nil {
		t.Error("expected error")
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) == 0 {
		t.Fatal("no formats registered")
	}

	want := map[string]bool{
		"EPUB (.epub)":              false,
		"Markdown (.md, .markdown)": false,
	}
	for _, f := range formats {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("%s not registered: %v", name, formats)
		}
	}
}
