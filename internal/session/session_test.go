package session

import (
	"fmt"
	"testing"

	"creb/internal/book"
)

// stubSource serves canned chapters; nil chapter bytes simulate a read
// failure.
type stubSource struct {
	chapters  [][]byte
	locations []string
	titles    []string
	table     book.Table
	blobs     map[string][]byte
}

func (s *stubSource) ChapterCount() int { return len(s.chapters) }

func (s *stubSource) RawChapter(i int) ([]byte, error) {
	if i < 0 || i >= len(s.chapters) {
		return nil, fmt.Errorf("chapter index %d out of bounds", i)
	}
	if s.chapters[i] == nil {
		return nil, fmt.Errorf("chapter %d unreadable", i)
	}
	return s.chapters[i], nil
}

func (s *stubSource) ChapterLocation(i int) string {
	if i < 0 || i >= len(s.locations) {
		return ""
	}
	return s.locations[i]
}

func (s *stubSource) ChapterTitle(i int) string {
	if i < 0 || i >= len(s.titles) {
		return ""
	}
	return s.titles[i]
}

func (s *stubSource) Resources() book.Table {
	if s.table == nil {
		return book.Table{}
	}
	return s.table
}

func (s *stubSource) ResourceBytes(storedPath string) ([]byte, error) {
	if data, ok := s.blobs[storedPath]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("resource %s not found", storedPath)
}

func (s *stubSource) Close() error { return nil }

func threeChapterSource() *stubSource {
	return &stubSource{
		chapters: [][]byte{
			[]byte("<h1>One</h1><p>First chapter.</p>"),
			[]byte(`<h1>Two</h1><p>Second chapter.</p><img src="../images/a.png"/><img src="../images/b.png"/>`),
			[]byte("<h1>Three</h1><p>Third chapter.</p>"),
		},
		locations: []string{"text/ch1.xhtml", "text/ch2.xhtml", "text/ch3.xhtml"},
		titles:    []string{"One", "Two", "Three"},
		table: book.Table{
			"images/a.png": {StoredPath: "images/a.png", MediaType: "image/png"},
			"images/b.png": {StoredPath: "images/b.png", MediaType: "image/png"},
		},
		blobs: map[string][]byte{
			"images/a.png": []byte("a"),
			"images/b.png": []byte("b"),
		},
	}
}

func newTestSession(t *testing.T, src book.Source, start int) *Session {
	t.Helper()
	s, err := New(src, start)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewLoadsInitialChapter(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 0)

	if got := s.ChapterIndex(); got != 0 {
		t.Errorf("ChapterIndex() = %d, want 0", got)
	}
	if got := len(s.Chapter().Blocks); got != 2 {
		t.Errorf("got %d blocks, want 2", got)
	}
	if got := s.ChapterTitle(); got != "One" {
		t.Errorf("ChapterTitle() = %q, want One", got)
	}
}

func TestNewOutOfBounds(t *testing.T) {
	if _, err := New(threeChapterSource(), 7); err == nil {
		t.Error("expected out of bounds error")
	}
}

func TestChapterNavigation(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 0)

	if err := s.NextChapter(); err != nil {
		t.Fatalf("NextChapter: %v", err)
	}
	if got := s.ChapterIndex(); got != 1 {
		t.Errorf("ChapterIndex() = %d, want 1", got)
	}

	if err := s.PrevChapter(); err != nil {
		t.Fatalf("PrevChapter: %v", err)
	}
	if got := s.ChapterIndex(); got != 0 {
		t.Errorf("ChapterIndex() = %d, want 0", got)
	}
}

func TestNavigationNoOpAtBounds(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 2)

	s.ScrollDown()
	s.ScrollDown()

	if err := s.NextChapter(); err != nil {
		t.Fatalf("NextChapter at end: %v", err)
	}
	if got := s.ChapterIndex(); got != 2 {
		t.Errorf("ChapterIndex() = %d, want 2", got)
	}
	if got := s.ScrollOffset(); got != 2 {
		t.Errorf("ScrollOffset() = %d, want 2 (no-op must not reset)", got)
	}

	first := newTestSession(t, threeChapterSource(), 0)
	if err := first.PrevChapter(); err != nil {
		t.Fatalf("PrevChapter at start: %v", err)
	}
	if got := first.ChapterIndex(); got != 0 {
		t.Errorf("ChapterIndex() = %d, want 0", got)
	}
}

func TestChapterChangeResetsScrollAndImage(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 1)

	s.PageDown(10)
	s.CycleImage()
	if got := s.ImageIndex(); got != 1 {
		t.Fatalf("ImageIndex() = %d, want 1", got)
	}

	if err := s.NextChapter(); err != nil {
		t.Fatalf("NextChapter: %v", err)
	}
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("ScrollOffset() = %d, want 0 after chapter change", got)
	}
	if got := s.ImageIndex(); got != 0 {
		t.Errorf("ImageIndex() = %d, want 0 after chapter change", got)
	}
}

func TestLoadFailureIsAtomic(t *testing.T) {
	src := threeChapterSource()
	src.chapters[2] = nil // chapter 3 unreadable
	s := newTestSession(t, src, 1)

	s.ScrollDown()
	s.ScrollDown()
	s.ScrollDown()
	s.CycleImage()
	wantBlocks := len(s.Chapter().Blocks)

	if err := s.NextChapter(); err == nil {
		t.Fatal("expected load failure")
	}

	if got := s.ChapterIndex(); got != 1 {
		t.Errorf("ChapterIndex() = %d, want 1", got)
	}
	if got := s.ScrollOffset(); got != 3 {
		t.Errorf("ScrollOffset() = %d, want 3", got)
	}
	if got := s.ImageIndex(); got != 1 {
		t.Errorf("ImageIndex() = %d, want 1", got)
	}
	if got := len(s.Chapter().Blocks); got != wantBlocks {
		t.Errorf("chapter replaced on failed load")
	}
}

func TestScrolling(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 0)

	s.ScrollUp()
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("ScrollUp at top: offset = %d, want 0", got)
	}

	s.ScrollDown()
	s.ScrollDown()
	s.ScrollUp()
	if got := s.ScrollOffset(); got != 1 {
		t.Errorf("offset = %d, want 1", got)
	}

	s.PageDown(12)
	if got := s.ScrollOffset(); got != 13 {
		t.Errorf("offset = %d, want 13", got)
	}

	s.PageUp(100)
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("PageUp saturates: offset = %d, want 0", got)
	}
}

func TestImageHandles(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 1)

	images := s.Images()
	if len(images) != 2 {
		t.Fatalf("got %d image handles, want 2", len(images))
	}
	for i, h := range images {
		if !h.Available() {
			t.Errorf("handle %d unavailable", i)
		}
	}

	h, ok := s.CurrentImage()
	if !ok || !h.Available() {
		t.Fatal("expected the first image to be selected")
	}

	s.CycleImage()
	h2, _ := s.CurrentImage()
	if h2.Path == h.Path {
		t.Error("CycleImage did not advance")
	}
	s.CycleImage()
	h3, _ := s.CurrentImage()
	if h3.Path != h.Path {
		t.Error("CycleImage did not wrap around")
	}
}

func TestNoImages(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 0)

	if _, ok := s.CurrentImage(); ok {
		t.Error("CurrentImage ok for a chapter without images")
	}
	s.CycleImage() // must not panic
}

func TestUnresolvableImageYieldsSentinel(t *testing.T) {
	src := threeChapterSource()
	delete(src.table, "images/b.png")
	s := newTestSession(t, src, 1)

	images := s.Images()
	if len(images) != 2 {
		t.Fatalf("got %d image handles, want 2", len(images))
	}
	if !images[0].Available() {
		t.Error("first image should resolve")
	}
	if images[1].Available() {
		t.Error("second image should be the unavailable sentinel")
	}
}

func TestProgress(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 0)
	if got := s.Progress(); got != 0.0 {
		t.Errorf("Progress() = %v, want 0", got)
	}

	if err := s.NextChapter(); err != nil {
		t.Fatalf("NextChapter: %v", err)
	}
	if got := s.Progress(); got != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", got)
	}

	if err := s.NextChapter(); err != nil {
		t.Fatalf("NextChapter: %v", err)
	}
	if got := s.Progress(); got != 1.0 {
		t.Errorf("Progress() = %v, want 1", got)
	}

	single := newTestSession(t, &stubSource{chapters: [][]byte{[]byte("<p>only</p>")}}, 0)
	if got := single.Progress(); got != 1.0 {
		t.Errorf("single chapter Progress() = %v, want 1", got)
	}
}

func TestSetScrollOffset(t *testing.T) {
	s := newTestSession(t, threeChapterSource(), 0)

	s.SetScrollOffset(42)
	if got := s.ScrollOffset(); got != 42 {
		t.Errorf("ScrollOffset() = %d, want 42", got)
	}
	s.SetScrollOffset(-5)
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("ScrollOffset() = %d, want 0", got)
	}
}
