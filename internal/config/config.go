package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	WebDir      string        `yaml:"web_dir"`
	OpenBrowser bool          `yaml:"open_browser"`
	// SessionTTL drops games idle this long with no event subscriber; 0 keeps them.
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

type StoreConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

type PlayConfig struct {
	AttackerDelayMS int  `yaml:"attacker_delay_ms"` // advisory pause clients show before an Attacker move
	AutoAdvance     bool `yaml:"auto_advance"`
	Trace           bool `yaml:"trace"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Play   PlayConfig   `yaml:"play"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":2888", WebDir: "./web", SessionTTL: 2 * time.Hour},
		Store:  StoreConfig{Path: "data/games.db", Enabled: true},
		Play:   PlayConfig{AttackerDelayMS: 400, AutoAdvance: true},
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// BREAKTHROUGH_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("BREAKTHROUGH_ADDR", c.Server.Addr)
	c.Server.WebDir = getEnv("BREAKTHROUGH_WEB_DIR", c.Server.WebDir)
	c.Store.Path = getEnv("BREAKTHROUGH_DB", c.Store.Path)

	bools := []struct {
		key string
		dst *bool
	}{
		{"BREAKTHROUGH_OPEN_BROWSER", &c.Server.OpenBrowser},
		{"BREAKTHROUGH_STORE", &c.Store.Enabled},
		{"BREAKTHROUGH_AUTO_ADVANCE", &c.Play.AutoAdvance},
		{"BREAKTHROUGH_TRACE", &c.Play.Trace},
	}
	for _, b := range bools {
		v := os.Getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, b.key, v)
		}
		*b.dst = parsed
	}

	if v := os.Getenv("BREAKTHROUGH_ATTACKER_DELAY_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: BREAKTHROUGH_ATTACKER_DELAY_MS=%q", ErrInvalidConfig, v)
		}
		c.Play.AttackerDelayMS = n
	}

	if v := os.Getenv("BREAKTHROUGH_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: BREAKTHROUGH_SESSION_TTL=%q", ErrInvalidConfig, v)
		}
		c.Server.SessionTTL = d
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("%w: server.session_ttl is negative", ErrInvalidConfig)
	}
	if c.Play.AttackerDelayMS < 0 {
		return fmt.Errorf("%w: play.attacker_delay_ms is negative", ErrInvalidConfig)
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is empty", ErrInvalidConfig)
	}
	return nil
}
