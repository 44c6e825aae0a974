package book

import (
	"encoding/xml"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// ncxTitles parses the NCX navigation map and returns chapter titles keyed
// by href. Each title is stored under the raw src, the src with any
// fragment stripped, and the bare base name, so spine hrefs written with a
// different relative root still find their titles. Missing or unparseable
// NCX yields an empty map; titles are decoration, not structure.
func ncxTitles(byStored map[string]*epub.Item) map[string]string {
	result := make(map[string]string)

	var ncxItem *epub.Item
	for _, item := range byStored {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxItem = item
			break
		}
	}
	if ncxItem == nil {
		return result
	}

	r, err := ncxItem.Open()
	if err != nil {
		return result
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return result
	}

	var toc ncx
	if err := xml.Unmarshal(data, &toc); err != nil {
		return result
	}

	var extract func(points []navPoint)
	extract = func(points []navPoint) {
		for _, np := range points {
			href := np.Content.Src
			title := strings.TrimSpace(np.Label.Text)

			if _, exists := result[href]; !exists {
				result[href] = title
			}
			if idx := strings.Index(href, "#"); idx != -1 {
				base := href[:idx]
				if _, exists := result[base]; !exists {
					result[base] = title
				}
			}
			base := path.Base(href)
			if idx := strings.Index(base, "#"); idx != -1 {
				base = base[:idx]
			}
			if _, exists := result[base]; !exists {
				result[base] = title
			}

			extract(np.Children)
		}
	}
	extract(toc.NavMap.NavPoints)

	return result
}
