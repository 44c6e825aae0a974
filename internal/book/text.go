package book

import (
	"fmt"
	"os"
	"path/filepath"
)

// textSource serves a plain file as a single chapter. The structural
// parser's fallback path turns it into one paragraph.
type textSource struct {
	filename string
	data     []byte
}

func openText(filename string) (Source, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return &textSource{filename: filename, data: data}, nil
}

func (s *textSource) ChapterCount() int { return 1 }

func (s *textSource) RawChapter(i int) ([]byte, error) {
	if i != 0 {
		return nil, fmt.Errorf("chapter index %d out of bounds", i)
	}
	return s.data, nil
}

func (s *textSource) ChapterLocation(i int) string { return "" }

func (s *textSource) ChapterTitle(i int) string {
	if i != 0 {
		return ""
	}
	return filepath.Base(s.filename)
}

func (s *textSource) Resources() Table { return Table{} }

func (s *textSource) ResourceBytes(storedPath string) ([]byte, error) {
	return nil, fmt.Errorf("resource %s not available", storedPath)
}

func (s *textSource) Close() error { return nil }
