package portfolio

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/folio-feed/pkg/urlutils"
)

// ImageSource extracts a candidate image URL from an <img> element.
// An empty result means the source has nothing to offer.
type ImageSource interface {
	Candidate(img *goquery.Selection) string
}

// AttrSource reads a plain URL attribute such as src or data-src
type AttrSource struct {
	Attr string
}

// Candidate implements ImageSource
func (a AttrSource) Candidate(img *goquery.Selection) string {
	value, _ := img.Attr(a.Attr)
	return strings.TrimSpace(value)
}

// SrcsetSource reads the first URL of a responsive srcset attribute
type SrcsetSource struct {
	Attr string
}

// Candidate implements ImageSource
func (s SrcsetSource) Candidate(img *goquery.Selection) string {
	value, _ := img.Attr(s.Attr)
	first, _, _ := strings.Cut(value, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// NewImageSources builds the ordered strategy list for the attribute names.
// Names ending in "srcset" are read as source sets.
func NewImageSources(attrs []string) []ImageSource {
	sources := make([]ImageSource, 0, len(attrs))
	for _, attr := range attrs {
		if strings.HasSuffix(strings.ToLower(attr), "srcset") {
			sources = append(sources, SrcsetSource{Attr: attr})
		} else {
			sources = append(sources, AttrSource{Attr: attr})
		}
	}
	return sources
}

// imageURL returns the first candidate that resolves to an absolute web URL
func (s Site) imageURL(img *goquery.Selection) string {
	for _, source := range s.ImageSources {
		candidate := source.Candidate(img)
		if candidate == "" {
			continue
		}

		resolved, err := urlutils.ResolveURL(s.base(), candidate)
		if err != nil || !urlutils.IsWebURL(resolved) {
			continue
		}
		return resolved
	}
	return ""
}
