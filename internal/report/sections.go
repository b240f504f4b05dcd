package report

import (
	"sort"
	"strings"

	"github.com/medclarify/medclarify/internal/model"
)

// ParseSections splits raw model output into the structured report sections.
// Each known heading starts a section running until the next heading or the
// end of the text. Headings the model omitted are simply absent from the
// result; a repeated heading keeps its last occurrence.
func ParseSections(text string) map[string]string {
	type boundary struct {
		start   int // Index of the heading itself
		content int // Index just past the heading and optional colon
		heading string
	}

	var boundaries []boundary
	for _, heading := range model.SectionHeadings {
		offset := 0
		for {
			idx := strings.Index(text[offset:], heading)
			if idx < 0 {
				break
			}
			start := offset + idx
			content := start + len(heading)
			if content < len(text) && text[content] == ':' {
				content++
			}
			boundaries = append(boundaries, boundary{start: start, content: content, heading: heading})
			offset = content
		}
	}

	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].start < boundaries[j].start })

	sections := make(map[string]string)
	for i, b := range boundaries {
		end := len(text)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].start
		}
		sections[b.heading] = strings.TrimSpace(text[b.content:end])
	}
	return sections
}
