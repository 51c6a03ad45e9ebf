// Package configs provides embedded configuration files for folio-feed.
package configs

import "embed"

// DefaultConfigName is the embedded configuration every load starts from
const DefaultConfigName = "default.yaml"

// EmbeddedConfigs exposes embedded configuration files for read-only access.
//
//go:embed *.yaml
var EmbeddedConfigs embed.FS
