// Package config loads the user configuration file.
//
// The file lives at $XDG_CONFIG_HOME/bendchain/config.toml (or
// ~/.config/bendchain/config.toml). A missing file is not an error: every
// setting has a default, and command-line flags override whatever the file
// says.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	appName  = "bendchain"
	fileName = "config.toml"
)

// DefaultTOML is written by [WriteDefault]. It documents every setting.
const DefaultTOML = `# bendchain configuration

[rig]
# Gap between a node and its predecessor, in scene units.
offset = 0.0
# Twist about the chain axis, in degrees.
rotation = 0.0

[render]
width = 800
height = 600
# PNG resolution multiplier.
scale = 1.0
segments = 24
labels = true

[server]
addr = ":8080"
# Leave empty to disable the shared cache.
redis = ""
redis_db = 0
key_prefix = "bendchain:"

[cache]
# Lifetime of cached evaluations, as a Go duration.
ttl = "24h"
`

// RigConfig holds the link defaults applied by the rig command.
type RigConfig struct {
	Offset   float64 `toml:"offset"`
	Rotation float64 `toml:"rotation"` // Degrees
}

// RenderConfig holds drawing defaults.
type RenderConfig struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Scale    float64 `toml:"scale"`
	Segments int     `toml:"segments"`
	Labels   bool    `toml:"labels"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	Redis     string `toml:"redis"`
	RedisDB   int    `toml:"redis_db"`
	KeyPrefix string `toml:"key_prefix"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	TTL Duration `toml:"ttl"`
}

// Config is the parsed configuration file.
type Config struct {
	Rig    RigConfig    `toml:"rig"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is the file the config was loaded from; empty for defaults.
	Path string `toml:"-"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Width:    800,
			Height:   600,
			Scale:    1,
			Segments: 24,
			Labels:   true,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			KeyPrefix: appName + ":",
		},
		Cache: CacheConfig{TTL: Duration{24 * time.Hour}},
	}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/bendchain/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the configuration at path, or at [DefaultPath] when path is
// empty. A missing file yields the defaults. Keys the file omits keep
// their default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Path = path
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("config: render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	case c.Render.Scale <= 0:
		return fmt.Errorf("config: render scale must be positive, got %g", c.Render.Scale)
	case c.Render.Segments < 1:
		return fmt.Errorf("config: render segments must be at least 1, got %d", c.Render.Segments)
	case c.Cache.TTL.Duration < 0:
		return fmt.Errorf("config: cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

// WriteDefault writes [DefaultTOML] to path unless a file already exists.
// It reports whether the file was created.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(DefaultTOML), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
