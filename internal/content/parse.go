package content

import (
	"encoding/xml"
	"io"
	"strings"
)

// openKind tracks which text-bearing element is currently accumulating.
type openKind int

const (
	openNone openKind = iota
	openHeading
	openParagraph
)

const xhtmlNamespaceAttr = `xmlns="http://www.w3.org/1999/xhtml"`

// noImageSource is the placeholder description for image elements
// that carry no usable source attribute.
const noImageSource = "image without source"

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// Parse converts a chapter's raw markup into a Chapter. It never fails:
// markup that cannot be streamed, or that yields no blocks at all, is
// downgraded to a single paragraph holding the preprocessed text.
func Parse(raw []byte) Chapter {
	pre := preprocess(string(raw))

	// RawToken, not Token: the extraction is a flat state machine, not a
	// tree walk. Unbalanced or interleaved tags stream through without
	// the well-formedness checks, and a heading or paragraph left open
	// at end of input simply drops its buffer.
	dec := xml.NewDecoder(strings.NewReader(pre))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var (
		blocks []Block
		buf    strings.Builder
		open   openKind
		level  int
	)

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fallback(pre)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case headingLevels[name] != 0:
				open = openHeading
				level = headingLevels[name]
				buf.Reset()
			case name == "p":
				open = openParagraph
				buf.Reset()
			case name == "img":
				blocks = append(blocks, imageBlock(t, "src"))
			case name == "image":
				// SVG-style image element; the reference lives in (xlink:)href.
				blocks = append(blocks, imageBlock(t, "href"))
			}
			// Any other element has no structural effect; its character
			// data still lands in whichever buffer is open.

		case xml.EndElement:
			switch name := t.Name.Local; {
			case headingLevels[name] != 0:
				if open == openHeading {
					if text := strings.TrimSpace(buf.String()); text != "" {
						blocks = append(blocks, Block{Kind: KindHeading, Text: text, Level: level})
					}
				}
				buf.Reset()
				open = openNone
				level = 0
			case name == "p":
				if open == openParagraph {
					if text := strings.TrimSpace(buf.String()); text != "" {
						blocks = append(blocks, Block{Kind: KindParagraph, Text: text})
					}
				}
				buf.Reset()
				open = openNone
			}

		case xml.CharData:
			buf.WriteString(string(t))
		}
	}

	// No recognized structure at all (plain text, say) gets the same
	// treatment as a failed parse.
	if len(blocks) == 0 {
		return fallback(pre)
	}

	return Chapter{Blocks: blocks}
}

// imageBlock emits an Image block from the element's source attribute,
// or a placeholder when the attribute is absent. Emission is immediate:
// image elements are void in practice and never wait for an end tag.
func imageBlock(el xml.StartElement, attrName string) Block {
	for _, a := range el.Attr {
		if a.Name.Local == attrName && a.Value != "" {
			ref := a.Value
			for strings.HasPrefix(ref, "../") {
				ref = ref[len("../"):]
			}
			return Block{Kind: KindImage, Text: ref}
		}
	}
	return Block{Kind: KindImagePlaceholder, Text: noImageSource}
}

// preprocess repairs inputs that are technically XHTML fragments but would
// otherwise fail strict structural parsing: the doctype, the XML declaration,
// and the XHTML namespace attribute all go.
func preprocess(s string) string {
	if i := strings.Index(s, "<!DOCTYPE"); i >= 0 {
		if j := strings.Index(s[i:], ">"); j >= 0 {
			s = s[:i] + s[i+j+1:]
		}
	}
	if i := strings.Index(s, "<?xml"); i >= 0 {
		if j := strings.Index(s[i:], "?>"); j >= 0 {
			s = s[:i] + s[i+j+2:]
		}
	}
	return strings.ReplaceAll(s, xhtmlNamespaceAttr, "")
}

// fallback treats the preprocessed text as one paragraph, so the pipeline
// always produces at least one block and never surfaces a parse failure.
func fallback(pre string) Chapter {
	return Chapter{Blocks: []Block{{Kind: KindParagraph, Text: pre}}}
}
