// Package content converts a chapter's raw markup into renderable blocks
// and wraps block text for a fixed-width display.
package content

// BlockKind discriminates the variants of Block.
type BlockKind int

const (
	// KindParagraph is a run of body text.
	KindParagraph BlockKind = iota
	// KindHeading is a section heading with a level of 1 through 6.
	KindHeading
	// KindImage is a reference to an image resource as written in the markup.
	KindImage
	// KindImagePlaceholder stands in for an image element with no usable source.
	KindImagePlaceholder
)

// Block is one renderable unit of chapter content.
type Block struct {
	Kind BlockKind
	// Text holds paragraph/heading text, the image reference for KindImage,
	// or the placeholder description for KindImagePlaceholder.
	Text string
	// Level is the heading level (1-6); zero for other kinds.
	Level int
}

// Chapter is the parsed form of one chapter, in document order.
// It is immutable once built; navigation replaces it wholesale.
type Chapter struct {
	Blocks []Block
}

// Images returns the image references in document order.
func (c Chapter) Images() []string {
	var refs []string
	for _, b := range c.Blocks {
		if b.Kind == KindImage {
			refs = append(refs, b.Text)
		}
	}
	return refs
}
