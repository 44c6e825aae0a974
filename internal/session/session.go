// Package session owns the reading position within an open book: current
// chapter, scroll offset, and image selection. It re-runs the ingestion
// pipeline on chapter changes and keeps the derived image-handle list in
// step with the parsed chapter.
package session

import (
	"fmt"

	"creb/internal/book"
	"creb/internal/content"
)

// Session is the navigation state machine for one open book. It is not
// safe for concurrent use; one reading session owns it exclusively.
type Session struct {
	source   book.Source
	resolver *book.Resolver

	chapterIndex int
	scrollOffset int
	imageIndex   int
	chapter      content.Chapter
	title        string
	images       []book.Handle
}

// New opens a session on source, loading the initial chapter.
func New(source book.Source, initialChapter int) (*Session, error) {
	resolver, err := book.NewResolver(source)
	if err != nil {
		return nil, err
	}
	s := &Session{source: source, resolver: resolver}
	if err := s.LoadChapter(initialChapter); err != nil {
		resolver.Close()
		return nil, err
	}
	return s, nil
}

// LoadChapter runs the ingestion pipeline for chapter i and commits the
// result. On failure no state changes: the previous chapter, scroll
// offset, and image selection all survive, so a failed transition is a
// clean no-op the caller may retry or ignore.
func (s *Session) LoadChapter(i int) error {
	if i < 0 || i >= s.source.ChapterCount() {
		return fmt.Errorf("chapter index %d out of bounds", i)
	}

	raw, err := s.source.RawChapter(i)
	if err != nil {
		return fmt.Errorf("failed to load chapter %d: %w", i, err)
	}

	chapter := content.Parse(raw)

	location := s.source.ChapterLocation(i)
	var images []book.Handle
	for _, ref := range chapter.Images() {
		images = append(images, s.resolver.Resolve(ref, location))
	}

	s.chapterIndex = i
	s.chapter = chapter
	s.title = chapterTitle(s.source, i, raw)
	s.images = images
	s.scrollOffset = 0
	s.imageIndex = 0
	return nil
}

func chapterTitle(source book.Source, i int, raw []byte) string {
	if t := source.ChapterTitle(i); t != "" {
		return t
	}
	if t := content.Title(raw); t != "" {
		return t
	}
	return fmt.Sprintf("Chapter %d", i+1)
}

// NextChapter advances one chapter. At the last chapter it is a no-op.
func (s *Session) NextChapter() error {
	if s.chapterIndex+1 >= s.source.ChapterCount() {
		return nil
	}
	return s.LoadChapter(s.chapterIndex + 1)
}

// PrevChapter goes back one chapter. At the first chapter it is a no-op.
func (s *Session) PrevChapter() error {
	if s.chapterIndex == 0 {
		return nil
	}
	return s.LoadChapter(s.chapterIndex - 1)
}

// ScrollDown moves the viewport down one line.
func (s *Session) ScrollDown() {
	s.scrollOffset++
}

// ScrollUp moves the viewport up one line, never past the top.
func (s *Session) ScrollUp() {
	if s.scrollOffset > 0 {
		s.scrollOffset--
	}
}

// PageDown moves the viewport down pageSize lines.
func (s *Session) PageDown(pageSize int) {
	s.scrollOffset += pageSize
}

// PageUp moves the viewport up pageSize lines, never past the top.
func (s *Session) PageUp(pageSize int) {
	s.scrollOffset -= pageSize
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}

// Chapter returns the currently loaded chapter.
func (s *Session) Chapter() content.Chapter {
	return s.chapter
}

// ChapterIndex returns the current chapter index.
func (s *Session) ChapterIndex() int {
	return s.chapterIndex
}

// ChapterCount returns the book's chapter count.
func (s *Session) ChapterCount() int {
	return s.source.ChapterCount()
}

// ChapterTitle returns a display title for the current chapter: the
// source's own title if it has one, then the markup's, then a fallback.
// It is computed once per chapter load.
func (s *Session) ChapterTitle() string {
	return s.title
}

// ScrollOffset returns the current scroll offset.
func (s *Session) ScrollOffset() int {
	return s.scrollOffset
}

// SetScrollOffset restores a saved scroll position.
func (s *Session) SetScrollOffset(offset int) {
	if offset < 0 {
		offset = 0
	}
	s.scrollOffset = offset
}

// Images returns the resolved image handles of the current chapter, in
// the order the images appear.
func (s *Session) Images() []book.Handle {
	return s.images
}

// CurrentImage returns the selected image handle. ok is false when the
// chapter has no images.
func (s *Session) CurrentImage() (h book.Handle, ok bool) {
	if len(s.images) == 0 {
		return book.Handle{}, false
	}
	return s.images[s.imageIndex], true
}

// CycleImage advances the image selection, wrapping around.
func (s *Session) CycleImage() {
	if len(s.images) == 0 {
		return
	}
	s.imageIndex = (s.imageIndex + 1) % len(s.images)
}

// ImageIndex returns the current image selection index.
func (s *Session) ImageIndex() int {
	return s.imageIndex
}

// Progress returns how far through the book the current chapter is, in
// [0, 1]. A single-chapter book is always complete.
func (s *Session) Progress() float64 {
	count := s.source.ChapterCount()
	if count <= 1 {
		return 1.0
	}
	return float64(s.chapterIndex) / float64(count-1)
}

// Close releases materialized resources. The source stays open; the
// caller owns it.
func (s *Session) Close() error {
	return s.resolver.Close()
}
