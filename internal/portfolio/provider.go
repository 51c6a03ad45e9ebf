package portfolio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/multierr"

	"github.com/lepinkainen/folio-feed/internal/config"
	"github.com/lepinkainen/folio-feed/pkg/feed"
	httputil "github.com/lepinkainen/folio-feed/pkg/http"
	"github.com/lepinkainen/folio-feed/pkg/providers"
)

// ProviderName is the registry name of the portfolio provider
const ProviderName = "portfolio"

// Provider implements the FeedProvider interface for a portfolio website
type Provider struct {
	config  *config.Config
	site    Site
	fetcher httputil.Fetcher
	options feed.Options
	now     func() time.Time
}

// NewProvider creates a provider for the configured site. A nil fetcher
// gets an HTTP client built from the http configuration.
func NewProvider(cfg *config.Config, fetcher httputil.Fetcher) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("portfolio provider needs a configuration")
	}

	site, err := NewSite(cfg)
	if err != nil {
		return nil, err
	}

	if fetcher == nil {
		fetcher = httputil.NewClient(&httputil.ClientConfig{
			Timeout:   cfg.HTTP.Timeout,
			MinDelay:  cfg.HTTP.Delay,
			UserAgent: cfg.HTTP.UserAgent,
		})
	}

	return &Provider{
		config:  cfg,
		site:    site,
		fetcher: fetcher,
		options: feed.Options{
			SplitImages: cfg.Feed.SplitImages,
			Generator:   cfg.Feed.Generator,
		},
		now: time.Now,
	}, nil
}

// factory creates a portfolio provider from a *config.Config
func factory(cfg any) (providers.FeedProvider, error) {
	c, ok := cfg.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("invalid config type for portfolio provider: expected *config.Config, got %T", cfg)
	}
	return NewProvider(c, nil)
}

func init() {
	providers.MustRegister(ProviderName, &providers.ProviderInfo{
		Name:        ProviderName,
		Description: "Generate RSS feeds from portfolio category pages",
		Version:     "1.0.0",
		Factory:     factory,
	})
}

// Categories returns the configured category ids
func (p *Provider) Categories() []string {
	return p.config.CategoryIDs()
}

// OutputPath returns where the feed of a category is written
func (p *Provider) OutputPath(categoryID string) string {
	return p.config.OutputPath(categoryID)
}

// ListProjects fetches a category listing page. Any fetch failure is returned.
func (p *Provider) ListProjects(ctx context.Context, category config.Category) ([]Project, error) {
	indexURL, err := p.config.IndexURL(category)
	if err != nil {
		return nil, fmt.Errorf("invalid index URL for category %s: %w", category.ID, err)
	}

	body, err := p.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing for category %s: %w", category.ID, err)
	}

	projects, err := ParseProjects(bytes.NewReader(body), p.site)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", category.ID, err)
	}

	slog.Debug("Listed projects", "category", category.ID, "url", indexURL, "count", len(projects))
	return projects, nil
}

// FetchDetail fetches and parses a project page of a category. Failures are
// logged and yield an empty Detail so the project is still published.
func (p *Provider) FetchDetail(ctx context.Context, categoryID, url string) Detail {
	logger := slog.With("category", categoryID, "url", url)

	body, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.Warn("Failed to fetch project page", "error", err)
		return Detail{}
	}

	detail, err := ParseDetail(bytes.NewReader(body), p.site)
	if err != nil {
		logger.Warn("Failed to parse project page", "error", err)
		return Detail{}
	}

	logger.Debug("Extracted project", "description_length", len([]rune(detail.Description)), "images", len(detail.Images))
	return detail
}

// Entries lists a category and extracts every project sequentially.
// A project URL listed twice is only fetched once.
func (p *Provider) Entries(ctx context.Context, category config.Category) ([]feed.Entry, error) {
	projects, err := p.ListProjects(ctx, category)
	if err != nil {
		return nil, err
	}

	entries := make([]feed.Entry, 0, len(projects))
	details := make(map[string]Detail, len(projects))
	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		detail, ok := details[project.URL]
		if !ok {
			detail = p.FetchDetail(ctx, category.ID, project.URL)
			details[project.URL] = detail
		}

		entries = append(entries, feed.Entry{
			Title:       project.Title,
			Link:        project.URL,
			Description: detail.Description,
			Images:      detail.Images,
		})
	}

	return entries, nil
}

// BuildFeed scrapes a category and returns its RSS channel
func (p *Provider) BuildFeed(ctx context.Context, categoryID string) (*feeds.RssFeed, error) {
	category, err := p.config.Category(categoryID)
	if err != nil {
		return nil, err
	}

	indexURL, err := p.config.IndexURL(category)
	if err != nil {
		return nil, fmt.Errorf("invalid index URL for category %s: %w", category.ID, err)
	}

	entries, err := p.Entries(ctx, category)
	if err != nil {
		return nil, err
	}

	builder := feed.NewBuilder(feed.Channel{
		Title:       category.Title,
		Link:        indexURL,
		Description: category.Description,
	}, p.options)

	return builder.Build(entries, p.now()), nil
}

// GenerateFeed builds the feed of one category and writes it to its output path
func (p *Provider) GenerateFeed(ctx context.Context, categoryID string) error {
	start := time.Now()

	channel, err := p.BuildFeed(ctx, categoryID)
	if err != nil {
		return err
	}

	outfile := p.OutputPath(categoryID)
	if err := feed.SaveToFile(channel, outfile); err != nil {
		return fmt.Errorf("category %s: %w", categoryID, err)
	}

	slog.Info("Generated feed", "category", categoryID, "items", len(channel.Items), "path", outfile, "duration", time.Since(start))
	return nil
}

// GenerateAll generates every category. A failing category does not stop
// the others; all failures are returned together.
func (p *Provider) GenerateAll(ctx context.Context) error {
	return p.Generate(ctx, p.Categories())
}

// Generate generates the given categories in order
func (p *Provider) Generate(ctx context.Context, categoryIDs []string) error {
	var errs error
	for _, id := range categoryIDs {
		if err := p.GenerateFeed(ctx, id); err != nil {
			slog.Error("Failed to generate feed", "category", id, "error", err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
