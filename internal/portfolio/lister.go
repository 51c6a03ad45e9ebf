package portfolio

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/folio-feed/pkg/urlutils"
)

// ParseProjects returns the projects linked from a listing page in document
// order. Duplicates are kept.
func ParseProjects(r io.Reader, site Site) ([]Project, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var projects []Project
	doc.FindMatcher(site.Matchers.ProjectLinks).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")

		link, err := urlutils.ResolveURL(site.base(), href)
		if err != nil {
			slog.Warn("Skipping project with unparseable link", "href", href, "error", err)
			return
		}

		title := visibleText(s.Get(0))
		if title == "" {
			title = site.FallbackTitle
		}

		projects = append(projects, Project{Title: title, URL: link})
	})

	return projects, nil
}
