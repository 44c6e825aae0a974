package book

import (
	"fmt"
	"io"
	"path"

	"github.com/taylorskalyo/goreader/epub"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Open(filename string) (Source, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}

	if len(rc.Rootfiles) == 0 {
		rc.Close()
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]

	src := &epubSource{rc: rc, table: make(Table), byStored: make(map[string]*epub.Item)}

	for i := range book.Manifest.Items {
		item := &book.Manifest.Items[i]
		src.table[path.Clean(item.HREF)] = Resource{StoredPath: item.HREF, MediaType: item.MediaType}
		src.byStored[item.HREF] = item
	}

	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		src.chapters = append(src.chapters, ref.Item)
	}

	src.titles = ncxTitles(src.byStored)

	return src, nil
}

type epubSource struct {
	rc       *epub.ReadCloser
	chapters []*epub.Item
	byStored map[string]*epub.Item
	table    Table
	titles   map[string]string
}

func (s *epubSource) ChapterCount() int {
	return len(s.chapters)
}

func (s *epubSource) RawChapter(i int) ([]byte, error) {
	if i < 0 || i >= len(s.chapters) {
		return nil, fmt.Errorf("chapter index %d out of bounds", i)
	}
	r, err := s.chapters[i].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open chapter %d: %w", i, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *epubSource) ChapterLocation(i int) string {
	if i < 0 || i >= len(s.chapters) {
		return ""
	}
	return s.chapters[i].HREF
}

func (s *epubSource) ChapterTitle(i int) string {
	if i < 0 || i >= len(s.chapters) {
		return ""
	}
	href := s.chapters[i].HREF
	if t, ok := s.titles[href]; ok {
		return t
	}
	if t, ok := s.titles[path.Base(href)]; ok {
		return t
	}
	return ""
}

func (s *epubSource) Resources() Table {
	return s.table
}

func (s *epubSource) ResourceBytes(storedPath string) ([]byte, error) {
	item, ok := s.byStored[storedPath]
	if !ok {
		return nil, fmt.Errorf("resource %s not in manifest", storedPath)
	}
	r, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *epubSource) Close() error {
	s.rc.Close()
	return nil
}

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}
