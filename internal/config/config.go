// Package config loads the optional cartograph.yaml (or .json) file.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/session"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "cartograph.yaml"

// Config holds the startup settings of a session and its servers.
// Flags override whatever the file sets.
type Config struct {
	Language    string                    `yaml:"language" json:"language"`
	Preferences domain.DisplayPreferences `yaml:"preferences" json:"preferences"`
	LoadPolicy  string                    `yaml:"loadPolicy" json:"loadPolicy"`
	// Examples is a loam directory replacing the built-in catalog.
	Examples string `yaml:"examples" json:"examples"`

	Log    LogConfig    `yaml:"log" json:"log"`
	Server ServerConfig `yaml:"server" json:"server"`
	Redis  RedisConfig  `yaml:"redis" json:"redis"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// RedisConfig enables diff fan-out when Addr is set.
type RedisConfig struct {
	Addr   string `yaml:"addr" json:"addr"`
	Prefix string `yaml:"prefix" json:"prefix"`
	TTL    string `yaml:"ttl" json:"ttl"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Language:    "en",
		Preferences: domain.DefaultPreferences(),
		LoadPolicy:  session.LastCompleted.String(),
		Log:         LogConfig{Level: "info", Format: string(logging.FormatText)},
		Server:      ServerConfig{Port: 8080},
		Redis:       RedisConfig{Prefix: "cartograph:", TTL: "24h"},
	}
}

// Load reads path on top of Default. A missing file yields the defaults
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Validate checks the enumerated and parsed fields.
func (c Config) Validate() error {
	if _, err := domain.ParseRendererKind(string(c.Preferences.Renderer)); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if _, err := c.RedisTTL(); err != nil {
		return err
	}
	return nil
}

// Policy parses LoadPolicy.
func (c Config) Policy() (session.LoadPolicy, error) {
	return session.ParseLoadPolicy(c.LoadPolicy)
}

// Level parses Log.Level.
func (c Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.Log.Level)
}

// RedisTTL parses Redis.TTL. An empty value means no expiry.
func (c Config) RedisTTL() (time.Duration, error) {
	if c.Redis.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Redis.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl %q: %w", c.Redis.TTL, err)
	}
	return d, nil
}
