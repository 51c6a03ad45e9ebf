package portfolio

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// visibleText returns the text nodes below n joined by single spaces
func visibleText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return collapseSpace(norm.NFC.String(strings.Join(parts, " ")))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// removeNoise drops every occurrence of the markers
func removeNoise(s string, markers []string) string {
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		s = strings.ReplaceAll(s, marker, "")
	}
	return collapseSpace(s)
}

// Truncate shortens s to at most limit runes, marker included. The cut is made
// at the last space at or before the limit so no word is split. A first word
// longer than the limit leaves only the marker.
func Truncate(s string, limit int, marker string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	budget := limit - utf8.RuneCountInString(marker)
	if budget <= 0 {
		return marker
	}

	// the rune right after the budget being a space means the cut ends a word
	cut := budget
	if !unicode.IsSpace(runes[budget]) {
		cut = -1
		for i := budget - 1; i >= 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		if cut < 0 {
			return marker
		}
	}

	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + marker
}
