package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "config.yaml"
	DefaultPort        = 8000
	DefaultLookupDelay = time.Second
	DefaultSeedCount   = 200
	DefaultSeed        = 42

	// Identifiers are OPP followed by three digits.
	MaxSeedCount = 999
)

// DefaultAllowOrigins includes the wildcard, so any origin is accepted.
var DefaultAllowOrigins = []string{
	"http://localhost",
	"http://localhost:3000",
	"http://localhost:1337",
	"*",
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Seed    SeedConfig    `yaml:"seed"`
	Logging LoggingConfig `yaml:"logging"`
	CORS    CORSConfig    `yaml:"cors"`
}

type ServerConfig struct {
	Port        int           `yaml:"port"`
	LookupDelay time.Duration `yaml:"lookup_delay"` // e.g. "1s", "250ms"
}

type SeedConfig struct {
	Count       int    `yaml:"count"`
	Seed        uint64 `yaml:"seed"`
	FixtureFile string `yaml:"fixture_file,omitempty"` // Replaces generated records when set
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // json, console
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins,omitempty"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        DefaultPort,
			LookupDelay: DefaultLookupDelay,
		},
		Seed: SeedConfig{
			Count: DefaultSeedCount,
			Seed:  DefaultSeed,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		CORS:    CORSConfig{AllowOrigins: append([]string(nil), DefaultAllowOrigins...)},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is
// not an error. ${VAR} references in the file are expanded, and PORT in the
// environment overrides server.port.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
			// An explicit empty list falls back to the defaults.
			if len(cfg.CORS.AllowOrigins) == 0 {
				cfg.CORS.AllowOrigins = append([]string(nil), DefaultAllowOrigins...)
			}
		}
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.LookupDelay < 0 {
		return fmt.Errorf("server.lookup_delay must not be negative: %s", c.Server.LookupDelay)
	}
	if c.Seed.FixtureFile == "" && (c.Seed.Count < 1 || c.Seed.Count > MaxSeedCount) {
		return fmt.Errorf("seed.count must be between 1 and %d, got %d", MaxSeedCount, c.Seed.Count)
	}
	return nil
}

// Address is the listen address for the configured port.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
