package content

import "strings"

// Wrap greedily wraps text to the given column width, collapsing whitespace
// runs between words. Words longer than the width are hard-split into
// width-sized chunks. The result is never empty: empty input yields one
// empty line, so callers always have something to render for a block.
// Widths are measured in runes, matching how the rest of the UI counts
// columns.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	var current string

	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len([]rune(candidate)) <= width {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
			current = ""
		}

		runes := []rune(word)
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		current = string(runes)
	}

	if current != "" {
		lines = append(lines, current)
	}

	if len(lines) == 0 {
		lines = append(lines, "")
	}

	return lines
}
