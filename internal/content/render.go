package content

import (
	"fmt"
	"strings"
)

// Lines flattens a chapter into display lines at the given width.
// Headings carry markdown-style level markers and blank lines around
// them; paragraphs end with a blank separator line; images render as
// bracketed markers the UI can pair with the chapter's handle list.
func Lines(c Chapter, width int) []string {
	var lines []string

	imageNum := 0
	for _, b := range c.Blocks {
		switch b.Kind {
		case KindParagraph:
			lines = append(lines, Wrap(b.Text, width)...)
			lines = append(lines, "")
		case KindHeading:
			lines = append(lines, "")
			marker := strings.Repeat("#", b.Level)
			lines = append(lines, Wrap(marker+" "+b.Text, width)...)
			lines = append(lines, "")
		case KindImage:
			imageNum++
			lines = append(lines, fmt.Sprintf("[image %d: %s]", imageNum, b.Text), "")
		case KindImagePlaceholder:
			lines = append(lines, "["+b.Text+"]", "")
		}
	}

	return lines
}
