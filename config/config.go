package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server" toml:"server"`
	Search  SearchSettings `yaml:"search" toml:"search"`
	Logging LoggingConfig  `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig  `yaml:"metrics" toml:"metrics"`
	Seed    SeedConfig     `yaml:"seed" toml:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" toml:"port"`
	ReadTimeout     Duration `yaml:"readTimeout" toml:"read_timeout"`
	WriteTimeout    Duration `yaml:"writeTimeout" toml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout" toml:"shutdown_timeout"`
	MaxBodyBytes    int64    `yaml:"maxBodyBytes" toml:"max_body_bytes"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig controls the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// SeedConfig controls loading the sample catalog at startup.
type SeedConfig struct {
	SampleCatalog bool `yaml:"sampleCatalog" toml:"sample_catalog"`
}

// Load reads a YAML or TOML config file (if provided) and applies environment-variable
// overrides. The format is chosen by file extension. Missing values get defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's --config flag
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
		}
	}
	applyEnvOverrides(cfg)
	cfg.Search.ApplyDefaults()

	if problems := cfg.Search.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid search settings: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// defaultConfig returns a Config with defaults suitable for local use.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
			MaxBodyBytes:    10 << 20,
		},
		Search: DefaultSearchSettings(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Seed: SeedConfig{
			SampleCatalog: true,
		},
	}
}

// applyEnvOverrides reads CATALOG_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CATALOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CATALOG_SEARCH_DEFAULT_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.Search.DefaultLimit = limit
		}
	}
	if v := os.Getenv("CATALOG_SEARCH_MAX_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxLimit = limit
		}
	}
	if v := os.Getenv("CATALOG_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CATALOG_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CATALOG_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("CATALOG_SEED_SAMPLE"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Seed.SampleCatalog = enabled
		}
	}
}
