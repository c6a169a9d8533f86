// Package config loads the kintree configuration file.
//
// Configuration is TOML. The default location is
// ~/.config/kintree/config.toml; a missing file yields the defaults, so a
// config file is only needed to switch backends away from the in-memory
// store and local photo directory.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	kerrors "github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/layout"
)

// Backend names accepted by the store, blob, and cache sections.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	BlobLocal    = "local"
	BlobSupabase = "supabase"

	CacheOff   = "off"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Blob   BlobConfig   `toml:"blob"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the person store backend.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// BlobConfig selects and configures the photo store backend.
type BlobConfig struct {
	Backend  string         `toml:"backend"`
	Local    LocalBlob      `toml:"local"`
	Supabase SupabaseConfig `toml:"supabase"`
}

// LocalBlob configures the directory-backed photo store.
type LocalBlob struct {
	Dir     string `toml:"dir"`
	BaseURL string `toml:"base_url"`
}

// SupabaseConfig holds Supabase Storage credentials.
type SupabaseConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
	Bucket string `toml:"bucket"`
}

// Duration decodes TOML strings like "24h" or "90s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// CacheConfig selects and configures the diagram cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LayoutConfig overrides layout geometry. Zero values keep the defaults.
type LayoutConfig struct {
	UnitWidth  float64 `toml:"unit_width"`
	UnitHeight float64 `toml:"unit_height"`
	HGap       float64 `toml:"h_gap"`
	CoupleGap  float64 `toml:"couple_gap"`
	RowHeight  float64 `toml:"row_height"`
	MarginX    float64 `toml:"margin_x"`
	MarginY    float64 `toml:"margin_y"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present: in-memory
// store, local photo directory, no cache.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Backend: StoreMemory, Mongo: MongoConfig{Database: "kintree"}},
		Blob: BlobConfig{
			Backend: BlobLocal,
			Local:   LocalBlob{Dir: defaultDataDir("uploads"), BaseURL: "/uploads"},
		},
		Cache: CacheConfig{
			Backend: CacheOff,
			Dir:     defaultDataDir("cache"),
			TTL:     Duration(24 * time.Hour),
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "kintree", "config.toml")
}

// Load reads the config file at path and merges it over the defaults. An
// empty path means [DefaultPath]; a missing file at the default location is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	usingDefault := path == ""
	if usingDefault {
		path = DefaultPath()
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if usingDefault && os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, kerrors.New(kerrors.ErrCodeInvalidFormat,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreMongo:
	default:
		return kerrors.New(kerrors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	switch c.Blob.Backend {
	case BlobLocal, BlobSupabase:
	default:
		return kerrors.New(kerrors.ErrCodeInvalidInput, "unknown blob backend %q", c.Blob.Backend)
	}
	switch c.Cache.Backend {
	case CacheOff, CacheFile, CacheRedis:
	default:
		return kerrors.New(kerrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Store.Backend == StoreMongo && c.Store.Mongo.URI == "" {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "store.mongo.uri is required for the mongo backend")
	}
	if c.Blob.Backend == BlobSupabase {
		s := c.Blob.Supabase
		if s.URL == "" || s.APIKey == "" || s.Bucket == "" {
			return kerrors.New(kerrors.ErrCodeInvalidInput, "blob.supabase requires url, api_key, and bucket")
		}
	}
	return nil
}

// LayoutOptions converts the layout overrides to layout.Options. Zero fields
// are filled with the package defaults by layout.Compute.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		UnitWidth:  c.Layout.UnitWidth,
		UnitHeight: c.Layout.UnitHeight,
		HGap:       c.Layout.HGap,
		CoupleGap:  c.Layout.CoupleGap,
		RowHeight:  c.Layout.RowHeight,
		MarginX:    c.Layout.MarginX,
		MarginY:    c.Layout.MarginY,
	}
}

func defaultDataDir(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kintree", sub)
	}
	return filepath.Join(home, ".local", "share", "kintree", sub)
}
