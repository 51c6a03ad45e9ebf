// Package portfolio scrapes the category listings and project pages of a
// portfolio website and turns them into RSS feeds.
package portfolio

import (
	"fmt"

	"github.com/lepinkainen/folio-feed/internal/config"
)

// Project is one link found on a category listing page
type Project struct {
	Title string
	URL   string // absolute detail page URL
}

// Detail is what could be extracted from a project page.
// The zero value means nothing was found.
type Detail struct {
	Description string
	Images      []string
}

// Site holds the extraction rules of one website
type Site struct {
	Origin        string
	FallbackTitle string

	Matchers     *config.Matchers
	ImageSources []ImageSource

	MaxDescription int
	Ellipsis       string
	Noise          []string
	MaxImages      int
}

// NewSite compiles the extraction rules from the configuration
func NewSite(cfg *config.Config) (Site, error) {
	matchers, err := cfg.Selectors.Compile()
	if err != nil {
		return Site{}, fmt.Errorf("failed to compile selectors: %w", err)
	}

	return Site{
		Origin:         cfg.Site.Origin,
		FallbackTitle:  cfg.Site.FallbackTitle,
		Matchers:       matchers,
		ImageSources:   NewImageSources(cfg.Selectors.ImageAttributes),
		MaxDescription: cfg.Extract.MaxDescription,
		Ellipsis:       cfg.Extract.Ellipsis,
		Noise:          cfg.Extract.Noise,
		MaxImages:      cfg.Extract.MaxImages,
	}, nil
}

// base is the URL relative links are resolved against
func (s Site) base() string {
	return s.Origin + "/"
}
