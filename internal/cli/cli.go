// Package cli implements the kintree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/config"
	"github.com/kintreehq/kintree/pkg/blob"
	"github.com/kintreehq/kintree/pkg/buildinfo"
	"github.com/kintreehq/kintree/pkg/cache"
	"github.com/kintreehq/kintree/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "kintree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "kintree",
		Short:        "Kintree edits and draws family trees",
		Long:         `Kintree is a family-tree editor: it stores people and their relationships, keeps spouse and parent/child links consistent on every save, and draws the tree as a generational diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/kintree/config.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configured (or default) config file.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openStore builds the person store named by the config. The returned close
// function releases the backend's connections.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreMongo:
		m, err := store.NewMongo(ctx, cfg.Store.Mongo.URI, cfg.Store.Mongo.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		return m, func() { _ = m.Close(context.Background()) }, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}

// openBlob builds the photo store named by the config.
func openBlob(cfg config.Config) (blob.Store, error) {
	switch cfg.Blob.Backend {
	case config.BlobSupabase:
		s := cfg.Blob.Supabase
		return blob.NewSupabase(s.URL, s.APIKey, s.Bucket), nil
	default:
		return blob.NewLocal(cfg.Blob.Local.Dir, cfg.Blob.Local.BaseURL)
	}
}

// openCache builds the diagram cache named by the config. Failures fall back
// to the no-op cache so a broken cache never blocks the editor.
func openCache(ctx context.Context, cfg config.Config, logger *log.Logger) cache.Cache {
	switch cfg.Cache.Backend {
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			logger.Warn("file cache unavailable", "error", err)
			return cache.NewNullCache()
		}
		return fc
	case config.CacheRedis:
		r := cfg.Cache.Redis
		rc, err := cache.NewRedisCache(ctx, r.Addr, r.Password, r.DB)
		if err != nil {
			logger.Warn("redis cache unavailable", "error", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		return cache.NewNullCache()
	}
}

// viewStateDir returns the directory the pan/zoom state file lives in,
// honoring XDG_CONFIG_HOME.
func viewStateDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
