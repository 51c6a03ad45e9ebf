package server

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/lepinkainen/folio-feed/pkg/providers"
)

// rssContentType is sent with every feed response
const rssContentType = "application/rss+xml; charset=utf-8"

// Handler handles HTTP requests for generated feeds
type Handler struct {
	provider providers.FeedProvider
}

// NewHandler creates a new handler
func NewHandler(provider providers.FeedProvider) *Handler {
	return &Handler{provider: provider}
}

// feedStatus describes one generated feed file
type feedStatus struct {
	Path      string `json:"path"`
	Generated bool   `json:"generated"`
	Size      string `json:"size,omitempty"`
	Modified  string `json:"modified,omitempty"`
}

func (h *Handler) status(category string) feedStatus {
	path := h.provider.OutputPath(category)
	status := feedStatus{Path: "/feeds/" + category}

	info, err := os.Stat(path)
	if err != nil {
		return status
	}

	status.Generated = true
	status.Size = humanize.Bytes(uint64(info.Size()))
	status.Modified = info.ModTime().UTC().Format(time.RFC3339)
	return status
}

// GetFeed serves the generated file of a category
func (h *Handler) GetFeed(c *gin.Context) {
	category := strings.TrimSuffix(c.Param("category"), ".xml")

	if !slices.Contains(h.provider.Categories(), category) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category", "category": category})
		return
	}

	path := h.provider.OutputPath(category)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not generated yet", "category": category})
		return
	}
	if err != nil {
		slog.Error("Failed to read feed", "category", category, "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read feed"})
		return
	}

	if info, err := os.Stat(path); err == nil {
		c.Header("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	}
	c.Header("X-Feed-Size", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, rssContentType, data)
}

// HealthCheck reports which feeds have been generated
func (h *Handler) HealthCheck(c *gin.Context) {
	feeds := make(map[string]feedStatus)
	for _, category := range h.provider.Categories() {
		feeds[category] = h.status(category)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"feeds":     feeds,
	})
}

// Index lists the available endpoints
func (h *Handler) Index(c *gin.Context) {
	endpoints := map[string]string{"health": "/health"}
	for _, category := range h.provider.Categories() {
		endpoints[category] = "/feeds/" + category
	}

	c.JSON(http.StatusOK, gin.H{
		"service":   "folio-feed",
		"endpoints": endpoints,
	})
}
