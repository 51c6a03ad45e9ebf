package portfolio

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// ParseDetail extracts the description and images of a project page.
// Missing elements are not an error: the matching field stays empty.
func ParseDetail(r io.Reader, site Site) (Detail, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Detail{}, fmt.Errorf("failed to parse project page: %w", err)
	}

	return Detail{
		Description: description(doc, site),
		Images:      images(doc, site),
	}, nil
}

// description uses the full text of the first content block that has any
func description(doc *goquery.Document, site Site) string {
	var text string
	doc.FindMatcher(site.Matchers.ContentBlocks).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = visibleText(s.Get(0))
		return text == ""
	})

	if text == "" {
		return ""
	}

	return Truncate(removeNoise(text, site.Noise), site.MaxDescription, site.Ellipsis)
}

// images collects unique image URLs in document order, at most site.MaxImages
func images(doc *goquery.Document, site Site) []string {
	var urls []string
	seen := make(map[string]bool)

	doc.FindMatcher(site.Matchers.Images).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		url := site.imageURL(s)
		if url == "" || seen[url] {
			return true
		}
		seen[url] = true
		urls = append(urls, url)
		return len(urls) < site.MaxImages
	})

	return urls
}
