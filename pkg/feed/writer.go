package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/feeds"
	"github.com/mmcdole/gofeed/rss"

	"github.com/lepinkainen/folio-feed/pkg/filesystem"
)

// ErrItemCountMismatch is returned by Verify when the parsed document does not
// contain the expected number of items
var ErrItemCountMismatch = errors.New("item count mismatch")

// Write encodes the channel as a UTF-8 RSS 2.0 document with an XML declaration
func Write(w io.Writer, channel *feeds.RssFeed) error {
	if err := feeds.WriteXML(channel, w); err != nil {
		return fmt.Errorf("failed to encode RSS feed: %w", err)
	}
	return nil
}

// Render returns the encoded document
func Render(channel *feeds.RssFeed) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, channel); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// SaveToFile validates, renders, verifies and writes the channel to outputPath.
// The output directory is created when missing.
func SaveToFile(channel *feeds.RssFeed, outputPath string) error {
	if err := ValidateFeed(channel); err != nil {
		return fmt.Errorf("invalid feed %s: %w", outputPath, err)
	}

	data, err := Render(channel)
	if err != nil {
		return err
	}

	if err := Verify(data, len(channel.Items)); err != nil {
		return fmt.Errorf("rendered feed %s does not parse back: %w", outputPath, err)
	}

	if err := filesystem.WriteFile(outputPath, data); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	slog.Info("Feed saved successfully", "path", outputPath, "items", len(channel.Items), "size", humanize.Bytes(uint64(len(data))))
	return nil
}

// Verify parses data as RSS and checks it is version 2.0 with wantItems items
func Verify(data []byte, wantItems int) error {
	parser := &rss.Parser{}
	parsed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse RSS: %w", err)
	}

	if parsed.Version != "2.0" {
		return fmt.Errorf("unexpected RSS version %q", parsed.Version)
	}

	if len(parsed.Items) != wantItems {
		return fmt.Errorf("%w: parsed %d, expected %d", ErrItemCountMismatch, len(parsed.Items), wantItems)
	}

	return nil
}

// ValidateFeed validates the generated feed structure. A channel without items is
// valid: a category may legitimately list no projects.
func ValidateFeed(channel *feeds.RssFeed) error {
	if channel == nil {
		return fmt.Errorf("feed is nil")
	}

	if channel.Title == "" {
		return fmt.Errorf("feed title is empty")
	}

	if channel.Link == "" {
		return fmt.Errorf("feed link is empty")
	}

	if channel.Description == "" {
		return fmt.Errorf("feed description is empty")
	}

	guids := make(map[string]bool, len(channel.Items))
	for i, item := range channel.Items {
		if err := validateFeedItem(item); err != nil {
			return fmt.Errorf("item %d validation failed: %w", i, err)
		}
		if guids[item.Guid.Id] {
			return fmt.Errorf("item %d validation failed: duplicate guid %s", i, item.Guid.Id)
		}
		guids[item.Guid.Id] = true
	}

	return nil
}

// validateFeedItem validates individual feed items
func validateFeedItem(item *feeds.RssItem) error {
	if item.Title == "" {
		return fmt.Errorf("item title is empty")
	}

	if item.Link == "" {
		return fmt.Errorf("item link is empty")
	}

	if item.Guid == nil || item.Guid.Id == "" {
		return fmt.Errorf("item guid is empty")
	}

	if item.Enclosure != nil && item.Enclosure.Url == "" {
		return fmt.Errorf("item enclosure has no URL")
	}

	return nil
}
