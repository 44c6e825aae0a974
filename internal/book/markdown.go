package book

import (
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown files. Headers split the
// file into chapters; each chapter is served to the pipeline as
// synthesized XHTML so the same structural parser handles every format.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// imageRegex matches a markdown image reference and captures its path.
var imageRegex = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)

type mdChapter struct {
	title string
	level int
	lines []string
}

type mdSource struct {
	filename string
	chapters []mdChapter
	table    Table
}

func (f *MarkdownFormat) Open(filename string) (Source, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	src := &mdSource{filename: filename, table: make(Table)}

	var current *mdChapter
	for _, line := range strings.Split(string(data), "\n") {
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			if current != nil {
				src.chapters = append(src.chapters, *current)
			}
			current = &mdChapter{
				title: strings.TrimSpace(match[2]),
				level: len(match[1]),
			}
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			// Content before the first header still has to be readable.
			current = &mdChapter{title: filepath.Base(filename)}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		src.chapters = append(src.chapters, *current)
	}

	if len(src.chapters) == 0 {
		src.chapters = append(src.chapters, mdChapter{title: filepath.Base(filename)})
	}

	// Image references resolve against the file's own directory.
	dir := path.Dir(filepath.ToSlash(filename))
	for _, match := range imageRegex.FindAllStringSubmatch(string(data), -1) {
		key := path.Clean(path.Join(dir, match[1]))
		src.table[key] = Resource{
			StoredPath: key,
			MediaType:  mime.TypeByExtension(path.Ext(match[1])),
		}
	}

	return src, nil
}

func (s *mdSource) ChapterCount() int {
	return len(s.chapters)
}

func (s *mdSource) RawChapter(i int) ([]byte, error) {
	if i < 0 || i >= len(s.chapters) {
		return nil, fmt.Errorf("chapter index %d out of bounds", i)
	}
	return []byte(s.chapters[i].xhtml()), nil
}

func (s *mdSource) ChapterLocation(i int) string {
	if i < 0 || i >= len(s.chapters) {
		return ""
	}
	return filepath.ToSlash(s.filename)
}

func (s *mdSource) ChapterTitle(i int) string {
	if i < 0 || i >= len(s.chapters) {
		return ""
	}
	return s.chapters[i].title
}

func (s *mdSource) Resources() Table {
	return s.table
}

func (s *mdSource) ResourceBytes(storedPath string) ([]byte, error) {
	return os.ReadFile(filepath.FromSlash(storedPath))
}

func (s *mdSource) Close() error {
	return nil
}

// xhtml renders the chapter as a flat XHTML fragment: the header as a
// heading element, blank-line-separated runs as paragraphs, and image
// lines as img elements.
func (c mdChapter) xhtml() string {
	var sb strings.Builder

	level := c.level
	if level == 0 {
		level = 1
	}
	if c.title != "" {
		fmt.Fprintf(&sb, "<h%d>%s</h%d>\n", level, escapeXML(c.title), level)
	}

	var para []string
	flush := func() {
		if len(para) > 0 {
			sb.WriteString("<p>")
			sb.WriteString(escapeXML(strings.Join(para, " ")))
			sb.WriteString("</p>\n")
			para = nil
		}
	}

	for _, line := range c.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if match := imageRegex.FindStringSubmatch(trimmed); match != nil && match[0] == trimmed {
			flush()
			fmt.Fprintf(&sb, "<img src=%q/>\n", match[1])
			continue
		}
		para = append(para, trimmed)
	}
	flush()

	return sb.String()
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
