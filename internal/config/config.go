package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/folio-feed/configs"
	"github.com/lepinkainen/folio-feed/pkg/filesystem"
	"github.com/lepinkainen/folio-feed/pkg/urlutils"
)

// DefaultConfigFile is looked up in the working directory, then next to the executable
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. FOLIO_FEED_HTTP_TIMEOUT=5s
const EnvPrefix = "FOLIO_FEED"

// ErrUnknownCategory is returned when a category id is not configured
var ErrUnknownCategory = errors.New("unknown category")

// Config holds the central application configuration
type Config struct {
	Site      Site      `mapstructure:"site" yaml:"site"`
	Selectors Selectors `mapstructure:"selectors" yaml:"selectors"`
	Extract   Extract   `mapstructure:"extract" yaml:"extract"`
	Feed      Feed      `mapstructure:"feed" yaml:"feed"`
	Output    Output    `mapstructure:"output" yaml:"output"`
	HTTP      HTTP      `mapstructure:"http" yaml:"http"`
}

// Site describes the scraped website
type Site struct {
	Origin        string     `mapstructure:"origin" yaml:"origin"`                 // scheme://host every relative URL resolves against
	FallbackTitle string     `mapstructure:"fallback_title" yaml:"fallback_title"` // used when a project link has no text
	Categories    []Category `mapstructure:"categories" yaml:"categories"`
}

// Category is one listing page and the feed produced from it
type Category struct {
	ID          string `mapstructure:"id" yaml:"id"`
	Path        string `mapstructure:"path" yaml:"path"`
	Title       string `mapstructure:"title" yaml:"title"`
	Description string `mapstructure:"description" yaml:"description"`
}

// Selectors are CSS selectors matching the site's page structure
type Selectors struct {
	ProjectLinks    string   `mapstructure:"project_links" yaml:"project_links"`
	ContentBlocks   string   `mapstructure:"content_blocks" yaml:"content_blocks"`
	Images          string   `mapstructure:"images" yaml:"images"`
	ImageAttributes []string `mapstructure:"image_attributes" yaml:"image_attributes"` // tried in order, first usable wins
}

// Extract bounds the extracted project details
type Extract struct {
	MaxDescription int      `mapstructure:"max_description" yaml:"max_description"` // in characters, ellipsis included
	Ellipsis       string   `mapstructure:"ellipsis" yaml:"ellipsis"`
	Noise          []string `mapstructure:"noise" yaml:"noise"` // substrings removed from descriptions
	MaxImages      int      `mapstructure:"max_images" yaml:"max_images"`
}

// Feed controls RSS shaping
type Feed struct {
	SplitImages bool   `mapstructure:"split_images" yaml:"split_images"`
	Generator   string `mapstructure:"generator" yaml:"generator"`
}

// Output controls where feeds are written
type Output struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	Extension string `mapstructure:"extension" yaml:"extension"`
}

// HTTP configures the page fetcher
type HTTP struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Delay     time.Duration `mapstructure:"delay" yaml:"delay"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// Matchers are the compiled forms of Selectors
type Matchers struct {
	ProjectLinks  cascadia.Selector
	ContentBlocks cascadia.Selector
	Images        cascadia.Selector
}

// LoadConfig loads the configuration from a file on top of the embedded defaults.
// An empty path looks for config.yaml and silently falls back to the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := configs.EmbeddedConfigs.ReadFile(configs.DefaultConfigName)
	if err != nil {
		return nil, fmt.Errorf("error reading embedded config: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("error parsing embedded config: %w", err)
	}

	path, err = resolvePath(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Site.Origin = strings.TrimRight(config.Site.Origin, "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// resolvePath returns the config file to merge, or "" when only defaults apply
func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	// First try the current working directory
	if filesystem.FileExists(DefaultConfigFile) {
		return DefaultConfigFile, nil
	}

	// Then the executable directory
	if execPath, err := filesystem.GetDefaultPath(DefaultConfigFile); err == nil {
		if filesystem.FileExists(execPath) {
			return execPath, nil
		}
	}

	return "", nil
}

// Validate checks the configuration for values the scraper cannot work with
func (c *Config) Validate() error {
	if !urlutils.IsWebURL(c.Site.Origin) {
		return fmt.Errorf("site.origin must be an absolute http(s) URL, got %q", c.Site.Origin)
	}

	if len(c.Site.Categories) == 0 {
		return fmt.Errorf("site.categories must not be empty")
	}

	ids := make(map[string]bool, len(c.Site.Categories))
	for i, category := range c.Site.Categories {
		switch {
		case category.ID == "":
			return fmt.Errorf("site.categories[%d].id must not be empty", i)
		case ids[category.ID]:
			return fmt.Errorf("site.categories[%d].id %q is duplicated", i, category.ID)
		case category.Path == "":
			return fmt.Errorf("category %s: path must not be empty", category.ID)
		case category.Title == "":
			return fmt.Errorf("category %s: title must not be empty", category.ID)
		case category.Description == "":
			return fmt.Errorf("category %s: description must not be empty", category.ID)
		}
		ids[category.ID] = true
	}

	if _, err := c.Selectors.Compile(); err != nil {
		return err
	}

	if len(c.Selectors.ImageAttributes) == 0 {
		return fmt.Errorf("selectors.image_attributes must not be empty")
	}

	if c.Extract.MaxDescription <= len([]rune(c.Extract.Ellipsis)) {
		return fmt.Errorf("extract.max_description (%d) must be longer than the ellipsis", c.Extract.MaxDescription)
	}

	if c.Extract.MaxImages < 1 {
		return fmt.Errorf("extract.max_images must be at least 1, got %d", c.Extract.MaxImages)
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}

	if c.HTTP.Delay < 0 {
		return fmt.Errorf("http.delay must not be negative, got %s", c.HTTP.Delay)
	}

	return nil
}

// Compile compiles every selector
func (s Selectors) Compile() (*Matchers, error) {
	compile := func(name, sel string) (cascadia.Selector, error) {
		compiled, err := cascadia.Compile(sel)
		if err != nil {
			return nil, fmt.Errorf("selectors.%s %q: %w", name, sel, err)
		}
		return compiled, nil
	}

	var (
		m   Matchers
		err error
	)
	if m.ProjectLinks, err = compile("project_links", s.ProjectLinks); err != nil {
		return nil, err
	}
	if m.ContentBlocks, err = compile("content_blocks", s.ContentBlocks); err != nil {
		return nil, err
	}
	if m.Images, err = compile("images", s.Images); err != nil {
		return nil, err
	}
	return &m, nil
}

// Category returns the category with the given id
func (c *Config) Category(id string) (Category, error) {
	for _, category := range c.Site.Categories {
		if category.ID == id {
			return category, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
}

// CategoryIDs returns the configured category ids in order
func (c *Config) CategoryIDs() []string {
	ids := make([]string, 0, len(c.Site.Categories))
	for _, category := range c.Site.Categories {
		ids = append(ids, category.ID)
	}
	return ids
}

// IndexURL returns the absolute listing page URL of the category
func (c *Config) IndexURL(category Category) (string, error) {
	return urlutils.ResolveURL(c.Site.Origin+"/", category.Path)
}

// OutputPath returns the file a category's feed is written to
func (c *Config) OutputPath(categoryID string) string {
	return filepath.Join(c.Output.Dir, c.Output.Prefix+categoryID+c.Output.Extension)
}

// Dump writes the configuration as YAML
func Dump(w io.Writer, config *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
