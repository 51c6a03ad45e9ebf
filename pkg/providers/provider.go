// Package providers keeps the registry of feed sources.
package providers

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gorilla/feeds"
)

// FeedProvider defines the interface for a feed source with named categories.
type FeedProvider interface {
	// Categories returns the category ids in configuration order
	Categories() []string
	// BuildFeed scrapes one category without writing anything
	BuildFeed(ctx context.Context, category string) (*feeds.RssFeed, error)
	// GenerateFeed builds one category and writes it to its output path
	GenerateFeed(ctx context.Context, category string) error
	// GenerateAll generates every category, returning all failures
	GenerateAll(ctx context.Context) error
	// OutputPath returns where a category's feed is written
	OutputPath(category string) string
}

// ProviderFactory creates a new instance of a provider.
type ProviderFactory func(config any) (FeedProvider, error)

// ProviderInfo contains metadata about a provider.
type ProviderInfo struct {
	Name        string
	Description string
	Version     string
	Factory     ProviderFactory
}

// ProviderRegistry manages registered feed providers.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]*ProviderInfo
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]*ProviderInfo),
	}
}

// Register adds a provider to the registry.
func (r *ProviderRegistry) Register(name string, info *ProviderInfo) error {
	if info == nil || info.Factory == nil {
		return fmt.Errorf("provider %s has no factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s is already registered", name)
	}

	r.providers[name] = info
	return nil
}

// Get retrieves a provider by name.
func (r *ProviderRegistry) Get(name string) (*ProviderInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}

	return info, nil
}

// List returns all registered provider names, sorted.
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// CreateProvider creates a new instance of the specified provider.
func (r *ProviderRegistry) CreateProvider(name string, config any) (FeedProvider, error) {
	info, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	provider, err := info.Factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider %s: %w", name, err)
	}

	return provider, nil
}

// DefaultRegistry is the registry providers add themselves to from init.
var DefaultRegistry = NewProviderRegistry()
