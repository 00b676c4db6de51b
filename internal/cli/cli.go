// Package cli implements the stickerforge command-line interface.
//
// This package provides the interactive photo editor (edit), batch
// relationship tooling (relate, preview, apply, crop), and cache
// management. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - edit: Open a photo in the interactive terminal editor
//   - apply: Apply a saved marker document to a photo in one shot
//   - relate: Report fusions and chains for a saved marker document
//   - preview: Composite markers over a photo as a PNG
//   - crop: Extract a pixel region from a photo
//   - cache: Manage the generation response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mlehnert/stickerforge/pkg/buildinfo"
	"github.com/mlehnert/stickerforge/pkg/cache"
	"github.com/mlehnert/stickerforge/pkg/config"
	"github.com/mlehnert/stickerforge/pkg/genai"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stickerforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the layered
// configuration file.
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := config.Load("")
	logger := newLogger(w, level)
	if err != nil {
		logger.Warn("ignoring malformed config file", "err", err)
		cfg = config.Default()
	}
	return &CLI{Logger: logger, Config: cfg}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "stickerforge",
		Short:        "Stickerforge places semantic stickers on photos and regenerates them",
		Long:         `Stickerforge is a terminal photo-composition tool: place tagged stickers on a photo, let overlap and proximity detection group them into fusions and chains, and send the structured composition to an image-generation service for a reworked photo.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.relateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cropCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client & Cache Factories
// =============================================================================

// newGenClient creates the generation client from configuration.
func (c *CLI) newGenClient(ctx context.Context, noCache bool) *genai.Client {
	ttl := time.Duration(c.Config.Cache.TTLHours) * time.Hour
	return genai.NewClient(
		c.Config.Generation.Endpoint,
		c.Config.Generation.APIKey(),
		genai.WithCache(c.newCache(ctx, noCache), ttl),
		genai.WithTimeout(time.Duration(c.Config.Generation.TimeoutSeconds)*time.Second),
		genai.WithLogger(c.Logger),
	)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache()
	}
	if c.Config.Cache.Backend == "redis" && c.Config.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr, "", c.Config.Cache.RedisDB)
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, falling back to file cache", "err", err)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	c.Logger.Debug("using file cache", "dir", fc.Dir())
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stickerforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
