// Package main provides the CLI entry point for folio-feed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"go.uber.org/multierr"

	"github.com/lepinkainen/folio-feed/internal/config"
	"github.com/lepinkainen/folio-feed/internal/portfolio"
	"github.com/lepinkainen/folio-feed/internal/server"
	"github.com/lepinkainen/folio-feed/pkg/logging"
	"github.com/lepinkainen/folio-feed/pkg/preview"
	"github.com/lepinkainen/folio-feed/pkg/providers"
)

// CLI structure
var CLI struct {
	Config  string `help:"Site configuration file (default: config.yaml when present)" type:"path"`
	Debug   bool   `help:"Enable debug logging" default:"false"`
	LogFile string `help:"Also write logs to this file, rotated by size" type:"path"`

	Generate struct {
		Categories []string `arg:"" optional:"" help:"Categories to generate (default: all)"`
	} `cmd:"" default:"withargs" help:"Scrape categories and write their RSS feeds."`

	Preview struct {
		Category string `arg:"" help:"Category to preview"`
		Index    int    `help:"Output XML for specific item index (0-based) to stdout" default:"-1"`
	} `cmd:"" help:"Preview the items of a category feed interactively."`

	Serve struct {
		Addr     string `help:"Listen address" default:":8080"`
		Generate bool   `help:"Generate all feeds before serving" default:"false"`
	} `cmd:"" help:"Serve the generated feeds over HTTP."`

	ShowConfig struct{} `cmd:"" name:"config" help:"Print the effective site configuration as YAML."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	kctx := kong.Parse(&CLI,
		kong.Name("folio-feed"),
		kong.Description("Scrape portfolio category pages into RSS feeds."),
		kong.Configuration(kongyaml.Loader, "config.yaml", "~/.folio-feed/config.yaml"),
	)

	closer := logging.Setup(logging.Options{Debug: CLI.Debug, File: CLI.LogFile})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, kctx.Command())
	stop()

	if err != nil {
		slog.Error("folio-feed failed", "command", kctx.Command(), "error", err)
	}
	if closeErr := closer.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		return err
	}

	switch strings.Fields(command)[0] {
	case "generate":
		return generateFeeds(ctx, cfg, CLI.Generate.Categories)

	case "preview":
		return previewFeed(ctx, cfg, CLI.Preview.Category, CLI.Preview.Index)

	case "serve":
		return serveFeeds(ctx, cfg)

	case "config":
		return config.Dump(os.Stdout, cfg)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// newProvider creates the portfolio provider using the registry
func newProvider(cfg *config.Config) (providers.FeedProvider, error) {
	provider, err := providers.CreateProvider(portfolio.ProviderName, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider (registered: %s): %w", strings.Join(providers.ListProviders(), ", "), err)
	}
	return provider, nil
}

// generateFeeds generates the given categories, or all of them when none are given.
// Every category is attempted; the error lists the ones that failed.
func generateFeeds(ctx context.Context, cfg *config.Config, categories []string) error {
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		return provider.GenerateAll(ctx)
	}

	var errs error
	for _, category := range categories {
		if err := provider.GenerateFeed(ctx, category); err != nil {
			slog.Error("Failed to generate feed", "category", category, "error", err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// previewFeed scrapes a category without writing it and shows the items
func previewFeed(ctx context.Context, cfg *config.Config, category string, index int) error {
	slog.Debug("Previewing feed", "category", category)

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	channel, err := provider.BuildFeed(ctx, category)
	if err != nil {
		return err
	}

	// If index is specified, output XML directly to stdout
	if index >= 0 {
		if index >= len(channel.Items) {
			return fmt.Errorf("index %d out of range, feed has %d items", index, len(channel.Items))
		}
		fmt.Println(preview.FormatXMLItem(channel.Items[index]))
		return nil
	}

	return preview.Run(channel)
}

// serveFeeds serves the generated files until interrupted
func serveFeeds(ctx context.Context, cfg *config.Config) error {
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	if CLI.Serve.Generate {
		if err := provider.GenerateAll(ctx); err != nil {
			// feeds that did get written are still worth serving
			slog.Warn("Some feeds could not be generated", "error", err)
		}
	}

	serverCfg := server.DefaultConfig()
	serverCfg.Addr = CLI.Serve.Addr

	return server.Run(ctx, serverCfg, server.NewEngine(provider))
}
