// Package feed turns scraped portfolio entries into RSS 2.0 documents.
package feed

import (
	"time"
)

// PubDateLayout is RFC 822/1123 with a literal GMT zone, as expected by feed readers
const PubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// DefaultGenerator is written to the channel <generator> element
const DefaultGenerator = "folio-feed"

// Channel holds the metadata of one category feed
type Channel struct {
	Title       string
	Link        string
	Description string
}

// Entry is one project: its detail page plus whatever could be extracted from it.
// An empty Description and nil Images are valid and still produce an item.
type Entry struct {
	Title       string
	Link        string
	Description string
	Images      []string
}

// Options control how entries are shaped into items
type Options struct {
	// SplitImages emits one extra item per additional image so that consumers
	// reading a single enclosure per item still see every image.
	SplitImages bool
	// Generator overrides DefaultGenerator when set
	Generator string
}

// DefaultOptions returns the options used for Pinterest-style consumers
func DefaultOptions() Options {
	return Options{
		SplitImages: true,
		Generator:   DefaultGenerator,
	}
}

// FormatPubDate formats t in UTC using PubDateLayout
func FormatPubDate(t time.Time) string {
	return t.UTC().Format(PubDateLayout)
}
