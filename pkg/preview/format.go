// Package preview provides interactive feed item preview functionality using Bubble Tea TUI.
package preview

import (
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/feeds"
)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var lines []string
	var line strings.Builder
	lineLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := len([]rune(word))

		if lineLen > 0 && lineLen+1+wordLen > width {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen
	}

	if lineLen > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// shorten cuts s to max runes, ending with "..." when cut
func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// FormatCompactListItem formats a single feed item in compact list format
// Example: " 1. [image/png ] Maison Outremont (2/3)"
func FormatCompactListItem(index int, item *feeds.RssItem) string {
	media := "no image"
	if item.Enclosure != nil {
		media = item.Enclosure.Type
	}

	const maxTitleLength = 70
	return fmt.Sprintf("%2d. [%-10s] %s", index+1, media, shorten(item.Title, maxTitleLength))
}

// FormatDetailedItem formats a single feed item with all metadata
func FormatDetailedItem(item *feeds.RssItem) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "Title: %s\n", item.Title)
	fmt.Fprintf(&b, "Link: %s\n", item.Link)

	if item.Guid != nil {
		fmt.Fprintf(&b, "GUID: %s (permalink: %s)\n", item.Guid.Id, item.Guid.IsPermaLink)
	}

	if item.PubDate != "" {
		fmt.Fprintf(&b, "Published: %s\n", item.PubDate)
	}

	if item.Enclosure != nil {
		fmt.Fprintf(&b, "Image: %s (%s)\n", item.Enclosure.Url, item.Enclosure.Type)
	}

	if item.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", wrapText(item.Description, 70))
	}

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// FormatXMLItem renders the <item> element exactly as it is written to the feed
func FormatXMLItem(item *feeds.RssItem) string {
	data, err := xml.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error encoding item: %s", err)
	}

	return string(data)
}

// wrapXMLContent breaks long lines for terminal display
func wrapXMLContent(xml string, width int) string {
	var result strings.Builder

	for _, line := range strings.Split(xml, "\n") {
		if len(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		// For very long lines (usually the description), break at a space or tag end
		remaining := line
		for len(remaining) > width {
			breakPoint := width
			for i := width - 1; i > width-20 && i > 0; i-- {
				if remaining[i] == ' ' || remaining[i] == '>' {
					breakPoint = i + 1
					break
				}
			}
			for breakPoint > 1 && !utf8.RuneStart(remaining[breakPoint]) {
				breakPoint--
			}
			result.WriteString(remaining[:breakPoint])
			result.WriteString("\n")
			remaining = remaining[breakPoint:]
		}
		if remaining != "" {
			result.WriteString(remaining)
			result.WriteString("\n")
		}
	}

	return result.String()
}
