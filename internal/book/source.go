// Package book opens e-book files and exposes their chapters and resources
// to the reading pipeline.
package book

import (
	"path/filepath"
	"strings"
)

// Resource is one entry of a book's resource table: where the bytes live
// inside the package and what they are.
type Resource struct {
	StoredPath string
	MediaType  string
}

// Table maps canonical (traversal-collapsed) paths to resources.
type Table map[string]Resource

// Source provides chapters and resources for one open book.
type Source interface {
	// ChapterCount returns the number of navigable chapters.
	ChapterCount() int
	// RawChapter returns the raw markup bytes of chapter i, or an error
	// when i is out of bounds or the bytes cannot be read.
	RawChapter(i int) ([]byte, error)
	// ChapterLocation returns the chapter's source path within the
	// package, used to resolve relative resource references. May be "".
	ChapterLocation(i int) string
	// ChapterTitle returns a display title for chapter i, or "".
	ChapterTitle(i int) string
	// Resources returns the book's resource table.
	Resources() Table
	// ResourceBytes reads the bytes at a stored path from the table.
	ResourceBytes(storedPath string) ([]byte, error)
	// Close releases the underlying container.
	Close() error
}

// Format opens files of particular extensions as a Source.
type Format interface {
	Name() string
	Extensions() []string
	Open(filename string) (Source, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Open opens a file with a registered format, or as plain text when no
// format claims its extension.
func Open(filename string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f.Open(filename)
			}
		}
	}
	return openText(filename)
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
