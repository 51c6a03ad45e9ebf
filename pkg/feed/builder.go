package feed

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/feeds"
)

// enclosureLength is used because image sizes are never fetched
const enclosureLength = "0"

// Builder creates the RSS document of one channel
type Builder struct {
	channel Channel
	opts    Options
}

// NewBuilder creates a new feed builder
func NewBuilder(channel Channel, opts Options) *Builder {
	if opts.Generator == "" {
		opts.Generator = DefaultGenerator
	}
	return &Builder{
		channel: channel,
		opts:    opts,
	}
}

// Build creates the channel with items in entry order. The same generation
// instant is used as pubDate for every item. Entries whose link was already
// seen are skipped so guids stay unique.
func (b *Builder) Build(entries []Entry, now time.Time) *feeds.RssFeed {
	pubDate := FormatPubDate(now)

	rss := &feeds.RssFeed{
		Title:         b.channel.Title,
		Link:          b.channel.Link,
		Description:   b.channel.Description,
		PubDate:       pubDate,
		LastBuildDate: pubDate,
		Generator:     b.opts.Generator,
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.Link] {
			slog.Warn("Skipping duplicate project", "link", entry.Link, "title", entry.Title)
			continue
		}
		seen[entry.Link] = true

		rss.Items = append(rss.Items, b.Items(entry, pubDate)...)
	}

	slog.Debug("Built feed", "title", b.channel.Title, "entries", len(seen), "items", len(rss.Items))
	return rss
}

// Items expands one entry into its feed items. The primary item carries the
// detail URL as a permalink guid and the first image. With SplitImages, every
// further image gets its own item with a "#image-N" guid and an "(N/total)"
// title suffix.
func (b *Builder) Items(entry Entry, pubDate string) []*feeds.RssItem {
	primary := &feeds.RssItem{
		Title:       entry.Title,
		Link:        entry.Link,
		Description: entry.Description,
		Guid:        &feeds.RssGuid{Id: entry.Link, IsPermaLink: "true"},
		PubDate:     pubDate,
	}
	if len(entry.Images) > 0 {
		primary.Enclosure = newEnclosure(entry.Images[0])
	}

	items := []*feeds.RssItem{primary}
	if !b.opts.SplitImages {
		return items
	}

	total := len(entry.Images)
	for i := 2; i <= total; i++ {
		items = append(items, &feeds.RssItem{
			Title:       fmt.Sprintf("%s (%d/%d)", entry.Title, i, total),
			Link:        entry.Link,
			Description: entry.Description,
			Guid:        &feeds.RssGuid{Id: ImageGUID(entry.Link, i), IsPermaLink: "false"},
			PubDate:     pubDate,
			Enclosure:   newEnclosure(entry.Images[i-1]),
		})
	}

	return items
}

// ImageGUID returns the non-permalink guid of the n-th image item of a project.
// A link that already carries a fragment gets the marker appended to it, so the
// guid stays a single-fragment URL and links differing only by fragment keep
// distinct guids.
func ImageGUID(link string, n int) string {
	base, fragment, found := strings.Cut(link, "#")
	if found && fragment != "" {
		return fmt.Sprintf("%s#%s-image-%d", base, fragment, n)
	}
	return fmt.Sprintf("%s#image-%d", base, n)
}

func newEnclosure(imageURL string) *feeds.RssEnclosure {
	return &feeds.RssEnclosure{
		Url:    imageURL,
		Length: enclosureLength,
		Type:   MimeType(imageURL),
	}
}
