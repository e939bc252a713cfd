// Package config loads application configuration from TOML files.
//
// Configuration is optional: every field has a default, a missing file means
// defaults, and the CLI only overrides what its flags name. A full file looks
// like:
//
//	[server]
//	addr = ":8080"
//
//	[session]
//	backend = "redis"       # memory, file, or redis
//	ttl = "1h"
//	redis_addr = "localhost:6379"
//
//	[limits]
//	max_n = 16
//	max_tree_n = 12
//
//	[tui]
//	autoplay_interval = "800ms"
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// Duration wraps time.Duration so TOML values can be written as "800ms".
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

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Session Session `toml:"session"`
	Limits  Limits  `toml:"limits"`
	TUI     TUI     `toml:"tui"`
}

// Server configures the HTTP API.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`
}

// Session configures enumeration session storage.
type Session struct {
	// Backend selects the store: memory, file, or redis.
	Backend string `toml:"backend"`

	// TTL is how long an idle session survives.
	TTL Duration `toml:"ttl"`

	// Dir is the session directory for the file backend; empty uses the
	// user config directory.
	Dir string `toml:"dir"`

	// RedisAddr is the Redis address for the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// RedisPassword is optional.
	RedisPassword string `toml:"redis_password"`

	// RedisDB selects the Redis logical database.
	RedisDB int `toml:"redis_db"`
}

// Limits bounds request sizes accepted by the API and TUI.
type Limits struct {
	// MaxN caps the set size for enumeration requests.
	MaxN int `toml:"max_n"`

	// MaxTreeN caps n for recursion tree requests, which grow as 2^n.
	MaxTreeN int `toml:"max_tree_n"`
}

// TUI configures the terminal UI.
type TUI struct {
	// AutoplayInterval is the delay between automatic steps.
	AutoplayInterval Duration `toml:"autoplay_interval"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Session: Session{
			Backend: BackendMemory,
			TTL:     Duration(time.Hour),
		},
		Limits: Limits{
			MaxN:     16,
			MaxTreeN: 12,
		},
		TUI: TUI{AutoplayInterval: Duration(800 * time.Millisecond)},
	}
}

// Load reads the TOML file at path over the defaults. An empty path returns
// the defaults unchanged; a missing file at a given path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values against the hard limits of the engine.
func (c Config) Validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.Session.Backend == BackendRedis && c.Session.RedisAddr == "" {
		return fmt.Errorf("session backend %q requires redis_addr", BackendRedis)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl %s must be positive", c.Session.TTL.Std())
	}
	if c.Limits.MaxN < 1 || c.Limits.MaxN > partition.MaxN {
		return fmt.Errorf("max_n %d must be within [1, %d]", c.Limits.MaxN, partition.MaxN)
	}
	if c.Limits.MaxTreeN < 1 || c.Limits.MaxTreeN > stirling.MaxBuildN {
		return fmt.Errorf("max_tree_n %d must be within [1, %d]", c.Limits.MaxTreeN, stirling.MaxBuildN)
	}
	if c.TUI.AutoplayInterval <= 0 {
		return fmt.Errorf("autoplay_interval %s must be positive", c.TUI.AutoplayInterval.Std())
	}
	return nil
}
