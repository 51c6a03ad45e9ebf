package portfolio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/folio-feed/internal/config"
	httputil "github.com/lepinkainen/folio-feed/pkg/http"
	"github.com/lepinkainen/folio-feed/pkg/logging"
	"github.com/lepinkainen/folio-feed/pkg/providers"
)

var fixedNow = time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC)

const listingPage = `<html><body><div class="sqs-html-content">
<h4><a href="/projet-a">Projet A</a></h4>
<h4><a href="/manquant">Projet manquant</a></h4>
<h4><a href="/projet-b">Projet B</a></h4>
<h4><a href="/projet-a">Projet A</a></h4>
</div></body></html>`

const projectA = `<html><body>
<div class="sqs-block-content"><p>Trois images pour ce projet.</p></div>
<div class="sqs-block-image"><img src="https://images.example.com/a-1.jpg"></div>
<div class="sqs-block-image"><img data-src="/a-2.png"></div>
<div class="sqs-block-image"><img srcset="https://images.example.com/a-3.webp 500w"></div>
</body></html>`

const projectB = `<html><body><div class="sqs-block-content"><p>Aucune image.</p></div></body></html>`

// siteServer serves a small portfolio and counts requests per path
type siteServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newSiteServer(t *testing.T) *siteServer {
	t.Helper()

	s := &siteServer{hits: make(map[string]int)}
	pages := map[string]string{
		"/design-residentiel": listingPage,
		"/projet-a":           projectA,
		"/projet-b":           projectB,
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()

		if r.URL.Path == "/design-commercial" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *siteServer) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newTestProvider(t *testing.T, s *siteServer) *Provider {
	t.Helper()

	cfg := testConfig(t)
	cfg.Site.Origin = s.URL
	cfg.Output.Dir = t.TempDir()
	cfg.HTTP.Timeout = 5 * time.Second

	p, err := NewProvider(cfg, nil)
	require.NoError(t, err)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestProvider_ListProjects(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	category, err := p.config.Category("residentiel")
	require.NoError(t, err)

	projects, err := p.ListProjects(context.Background(), category)
	require.NoError(t, err)
	require.Len(t, projects, 4)
	assert.Equal(t, Project{Title: "Projet A", URL: s.URL + "/projet-a"}, projects[0])
	assert.Equal(t, projects[0], projects[3])
}

func TestProvider_ListProjects_FetchFailure(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	category, err := p.config.Category("commercial")
	require.NoError(t, err)

	_, err = p.ListProjects(context.Background(), category)
	require.Error(t, err)

	var statusErr *httputil.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestProvider_FetchDetail_NotFound(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	var logs bytes.Buffer
	logger, _ := logging.New(&logs, logging.Options{})
	previous := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(previous) })

	detail := p.FetchDetail(context.Background(), "residentiel", s.URL+"/manquant")
	assert.Equal(t, Detail{}, detail)

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "category=residentiel")
	assert.Contains(t, out, "url="+s.URL+"/manquant")
}

func TestProvider_BuildFeed(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	channel, err := p.BuildFeed(context.Background(), "residentiel")
	require.NoError(t, err)

	assert.Equal(t, "Atelier Filz – Projets Résidentiels", channel.Title)
	assert.Equal(t, s.URL+"/design-residentiel", channel.Link)
	assert.Equal(t, "Mon, 02 Jun 2025 08:30:00 GMT", channel.PubDate)

	type item struct{ title, guid, enclosure string }
	var got []item
	for _, i := range channel.Items {
		it := item{title: i.Title, guid: i.Guid.Id}
		if i.Enclosure != nil {
			it.enclosure = i.Enclosure.Url
		}
		got = append(got, it)
	}

	assert.Equal(t, []item{
		{"Projet A", s.URL + "/projet-a", "https://images.example.com/a-1.jpg"},
		{"Projet A (2/3)", s.URL + "/projet-a#image-2", s.URL + "/a-2.png"},
		{"Projet A (3/3)", s.URL + "/projet-a#image-3", "https://images.example.com/a-3.webp"},
		{"Projet manquant", s.URL + "/manquant", ""},
		{"Projet B", s.URL + "/projet-b", ""},
	}, got)

	assert.Equal(t, "Aucune image.", channel.Items[4].Description)
	assert.Empty(t, channel.Items[3].Description)

	// the repeated project is fetched once and emitted once
	assert.Equal(t, 1, s.hitCount("/projet-a"))
	assert.Equal(t, 1, s.hitCount("/manquant"))
}

func TestProvider_BuildFeed_NoSplit(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)
	p.options.SplitImages = false

	channel, err := p.BuildFeed(context.Background(), "residentiel")
	require.NoError(t, err)
	assert.Len(t, channel.Items, 3)
}

func TestProvider_BuildFeed_UnknownCategory(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	_, err := p.BuildFeed(context.Background(), "industriel")
	assert.ErrorIs(t, err, config.ErrUnknownCategory)
	assert.Zero(t, s.hitCount("/design-residentiel"))
}

func TestProvider_GenerateFeed(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	require.NoError(t, p.GenerateFeed(context.Background(), "residentiel"))

	f, err := os.Open(p.OutputPath("residentiel"))
	require.NoError(t, err)
	defer f.Close()

	parsed, err := (&rss.Parser{}).Parse(f)
	require.NoError(t, err)
	assert.Equal(t, "2.0", parsed.Version)
	require.Len(t, parsed.Items, 5)
	assert.Equal(t, "Projet A (3/3)", parsed.Items[2].Title)
	require.NotNil(t, parsed.Items[1].Enclosure)
	assert.Equal(t, "image/png", parsed.Items[1].Enclosure.Type)
	assert.Nil(t, parsed.Items[3].Enclosure)
}

func TestProvider_GenerateAll_PartialFailure(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	err := p.GenerateAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commercial")
	assert.NotContains(t, err.Error(), "residentiel")

	_, statErr := os.Stat(p.OutputPath("residentiel"))
	assert.NoError(t, statErr, "successful category must still be written")

	_, statErr = os.Stat(p.OutputPath("commercial"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "failed category must not be written")
}

func TestProvider_CancelledContext(t *testing.T) {
	s := newSiteServer(t)
	p := newTestProvider(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.BuildFeed(ctx, "residentiel")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProviderRegistration(t *testing.T) {
	assert.Contains(t, providers.ListProviders(), ProviderName)

	provider, err := providers.CreateProvider(ProviderName, testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"residentiel", "commercial"}, provider.Categories())

	_, err = providers.CreateProvider(ProviderName, "not a config")
	assert.Error(t, err)
}
