package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://www.atelierfilz.com", cfg.Site.Origin)
	assert.Equal(t, "Projet Atelier Filz", cfg.Site.FallbackTitle)
	assert.Equal(t, []string{"residentiel", "commercial"}, cfg.CategoryIDs())
	assert.Equal(t, 300, cfg.Extract.MaxDescription)
	assert.Equal(t, "…", cfg.Extract.Ellipsis)
	assert.Equal(t, 4, cfg.Extract.MaxImages)
	assert.Equal(t, []string{"src", "data-src", "data-image", "srcset"}, cfg.Selectors.ImageAttributes)
	assert.True(t, cfg.Feed.SplitImages)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	assert.Zero(t, cfg.HTTP.Delay)
}

func TestLoadConfig_MergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
extract:
  max_images: 2
feed:
  split_images: false
http:
  timeout: 5s
  delay: 250ms
output:
  dir: /tmp/feeds
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Extract.MaxImages)
	assert.False(t, cfg.Feed.SplitImages)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.Delay)
	assert.Equal(t, "/tmp/feeds", cfg.Output.Dir)

	// untouched keys keep their defaults
	assert.Equal(t, 300, cfg.Extract.MaxDescription)
	assert.Equal(t, "atelier_filz_projets_", cfg.Output.Prefix)
	assert.Len(t, cfg.Site.Categories, 2)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("FOLIO_FEED_EXTRACT_MAX_IMAGES", "3")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Extract.MaxImages)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid selector", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("selectors:\n  images: \"div[[\"\n"), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "selectors.images")
	})
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative origin", mutate: func(c *Config) { c.Site.Origin = "/atelier" }, wantErr: "site.origin"},
		{name: "ftp origin", mutate: func(c *Config) { c.Site.Origin = "ftp://atelierfilz.com" }, wantErr: "site.origin"},
		{name: "no categories", mutate: func(c *Config) { c.Site.Categories = nil }, wantErr: "site.categories must not be empty"},
		{name: "empty id", mutate: func(c *Config) { c.Site.Categories[0].ID = "" }, wantErr: "id must not be empty"},
		{name: "duplicate id", mutate: func(c *Config) { c.Site.Categories[1].ID = c.Site.Categories[0].ID }, wantErr: "is duplicated"},
		{name: "empty path", mutate: func(c *Config) { c.Site.Categories[0].Path = "" }, wantErr: "path must not be empty"},
		{name: "empty title", mutate: func(c *Config) { c.Site.Categories[1].Title = "" }, wantErr: "title must not be empty"},
		{name: "empty description", mutate: func(c *Config) { c.Site.Categories[1].Description = "" }, wantErr: "description must not be empty"},
		{name: "bad selector", mutate: func(c *Config) { c.Selectors.ProjectLinks = "h4 >" }, wantErr: "selectors.project_links"},
		{name: "no image attributes", mutate: func(c *Config) { c.Selectors.ImageAttributes = nil }, wantErr: "image_attributes"},
		{name: "max description shorter than ellipsis", mutate: func(c *Config) { c.Extract.MaxDescription = 1 }, wantErr: "max_description"},
		{name: "no images allowed", mutate: func(c *Config) { c.Extract.MaxImages = 0 }, wantErr: "max_images"},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTP.Timeout = 0 }, wantErr: "http.timeout"},
		{name: "negative delay", mutate: func(c *Config) { c.HTTP.Delay = -time.Second }, wantErr: "http.delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCategory(t *testing.T) {
	cfg := validConfig(t)

	category, err := cfg.Category("commercial")
	require.NoError(t, err)
	assert.Equal(t, "/design-commercial", category.Path)

	_, err = cfg.Category("industriel")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestIndexURL(t *testing.T) {
	cfg := validConfig(t)

	tests := []struct {
		path string
		want string
	}{
		{"/design-residentiel", "https://www.atelierfilz.com/design-residentiel"},
		{"design-commercial", "https://www.atelierfilz.com/design-commercial"},
		{"https://other.example.com/list", "https://other.example.com/list"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := cfg.IndexURL(Category{ID: "x", Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := validConfig(t)
	assert.Equal(t, filepath.Join("output", "atelier_filz_projets_residentiel.xml"), cfg.OutputPath("residentiel"))
}

func TestCompile(t *testing.T) {
	cfg := validConfig(t)

	matchers, err := cfg.Selectors.Compile()
	require.NoError(t, err)
	assert.NotNil(t, matchers.ProjectLinks)
	assert.NotNil(t, matchers.ContentBlocks)
	assert.NotNil(t, matchers.Images)
}

func TestDump(t *testing.T) {
	cfg := validConfig(t)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, cfg))

	out := buf.String()
	assert.Contains(t, out, "origin: https://www.atelierfilz.com")
	assert.Contains(t, out, "id: residentiel")
	assert.Contains(t, out, "max_images: 4")
	assert.Contains(t, out, "split_images: true")
}
