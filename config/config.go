package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the backend configuration settings.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	Import        ImportConfig        `yaml:"import"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// ImportConfig holds the import pipeline limits.
type ImportConfig struct {
	MaxFileBytes int64 `yaml:"max_file_bytes"`
	// AsyncCommit routes commits through the job queue instead of
	// running them on the request goroutine.
	AsyncCommit bool `yaml:"async_commit"`
}

// ObservabilityConfig holds metrics and tracing configuration.
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	ServiceName    string `yaml:"service_name"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is absent. Env vars override the
// file either way.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("IMPORT_MAX_FILE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid IMPORT_MAX_FILE_BYTES: %w", err)
		}
		cfg.Import.MaxFileBytes = n
	}
	if v := os.Getenv("IMPORT_ASYNC_COMMIT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid IMPORT_ASYNC_COMMIT: %w", err)
		}
		cfg.Import.AsyncCommit = b
	}

	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (set postgres.dsn or DATABASE_URL)")
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.Observability.MetricsAddress == "" {
		cfg.Observability.MetricsAddress = ":9090"
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "cagepicks-backend"
	}
	if cfg.Observability.Environment == "" {
		cfg.Observability.Environment = "development"
	}
	if cfg.Import.MaxFileBytes <= 0 {
		cfg.Import.MaxFileBytes = 10 << 20
	}
}
