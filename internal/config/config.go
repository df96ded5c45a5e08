package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "flowmap.yaml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the structure of flowmap.yaml.
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Store      StoreConfig      `yaml:"store" json:"store"`
	Layout     LayoutConfig     `yaml:"layout" json:"layout"`
	Validation ValidationConfig `yaml:"validation" json:"validation"`
}

type ServerConfig struct {
	Port string `yaml:"port" json:"port"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// StoreConfig selects where workflows and layouts live.
// Dir holds "workflows/" and "layouts/" for the file backend.
type StoreConfig struct {
	Type  string      `yaml:"type" json:"type"`
	Dir   string      `yaml:"dir" json:"dir"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	TTL      string `yaml:"ttl" json:"ttl"` // Go duration, empty means no expiration
}

type LayoutConfig struct {
	HorizontalSpacing float64 `yaml:"horizontal_spacing" json:"horizontal_spacing"`
	VerticalSpacing   float64 `yaml:"vertical_spacing" json:"vertical_spacing"`
	Mode              string  `yaml:"mode" json:"mode"`
	// SnapGrid rounds saved positions to a grid of this size; 0 disables it.
	SnapGrid          float64 `yaml:"snap_grid" json:"snap_grid"`
}

type ValidationConfig struct {
	Strict bool `yaml:"strict" json:"strict"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info"},
		Store: StoreConfig{
			Type: StoreMemory,
			Dir:  ".flowmap",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "flowmap:layout:",
			},
		},
		Layout: LayoutConfig{
			HorizontalSpacing: 400,
			VerticalSpacing:   250,
			Mode:              "saved-only",
		},
	}
}

// Load reads a configuration file (YAML or JSON) on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no component can honor.
func (c Config) Validate() error {
	switch c.Store.Type {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	switch c.Layout.Mode {
	case "", "saved-only", "mixed":
	default:
		return fmt.Errorf("unknown layout mode %q", c.Layout.Mode)
	}
	if c.Layout.SnapGrid < 0 {
		return fmt.Errorf("invalid layout snap_grid %g: negative", c.Layout.SnapGrid)
	}
	if _, err := c.Store.Redis.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// TTLDuration parses the redis TTL.
func (r RedisConfig) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl %q: %w", r.TTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid redis ttl %q: negative", r.TTL)
	}
	return d, nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}
