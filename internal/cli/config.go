package cli

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cardpress/cardpress/pkg/errors"
)

// serverConfig is the TOML configuration for the serve command. Flags
// override file values; zero values fall back to defaults at startup.
type serverConfig struct {
	Listen string      `toml:"listen"`
	Store  storeConfig `toml:"store"`
	Cache  cacheConfig `toml:"cache"`
	Assets assetConfig `toml:"assets"`
	Images imageConfig `toml:"images"`
}

type storeConfig struct {
	Backend  string `toml:"backend"` // "memory" or "mongo"
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

type cacheConfig struct {
	Backend string   `toml:"backend"` // "memory", "redis", "file", or "none"
	Addr    string   `toml:"addr"`    // redis address
	Dir     string   `toml:"dir"`     // file backend directory
	TTL     duration `toml:"ttl"`
}

type assetConfig struct {
	Dir     string `toml:"dir"`      // local directory for uploaded files
	BaseURL string `toml:"base_url"` // public URL prefix for uploads
}

// imageConfig tunes the remote image fetcher used during rasterization.
type imageConfig struct {
	CacheDir string   `toml:"cache_dir"` // on-disk cache for fetched images
	CacheTTL duration `toml:"cache_ttl"`
}

// duration wraps time.Duration for TOML string values like "10m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// defaultServerConfig returns the config used when no file is given.
func defaultServerConfig() serverConfig {
	return serverConfig{
		Listen: ":8080",
		Store:  storeConfig{Backend: "memory"},
		Cache:  cacheConfig{Backend: "memory", TTL: duration{10 * time.Minute}},
	}
}

// loadServerConfig reads a TOML config file over the defaults.
func loadServerConfig(path string) (serverConfig, error) {
	cfg := defaultServerConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return serverConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "loading config %s", path)
	}
	return cfg, nil
}
