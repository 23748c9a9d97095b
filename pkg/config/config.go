package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store backend selection.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// AI provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for codeloom-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3001"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// AI provider configuration
	AI AIConfig `yaml:"ai"`

	// Upload limits
	Upload UploadConfig `yaml:"upload"`
}

// DatabaseConfig holds persistence configuration. Type selects the
// store backend: "memory" keeps records in process, "postgres"
// persists them via the connection settings below.
type DatabaseConfig struct {
	Type           string `yaml:"type" env:"DATABASE_TYPE" env-default:"memory"`
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"codeloom"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"codeloom_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// AIConfig holds the external model endpoint settings shared by all
// orchestration operations.
type AIConfig struct {
	// Provider selects the client implementation: "openai" (or any
	// OpenAI-compatible endpoint via BaseURL) or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// BaseURL overrides the provider's default endpoint. Leave empty
	// for the hosted API; point it at a gateway or local server for
	// OpenAI-compatible backends.
	BaseURL string `yaml:"base_url" env:"AI_BASE_URL" env-default:""`

	Model       string  `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`
	Temperature float32 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.3"`

	// RequestTimeoutSeconds bounds a single upstream call. A timeout
	// surfaces to clients as an AI service failure.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"AI_REQUEST_TIMEOUT_SECONDS" env-default:"60"`

	// APIKey is the provider credential.
	APIKey string `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
}

// RequestTimeout returns the upstream call timeout as a duration.
func (c *AIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	// MaxSizeBytes rejects uploads larger than this before any
	// parsing happens. Default 10 MiB.
	MaxSizeBytes int64 `yaml:"max_size_bytes" env:"UPLOAD_MAX_SIZE_BYTES" env-default:"10485760"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set
// on the returned Config. Secrets (PGPASSWORD, AI_API_KEY) must come
// from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Type {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("database.type must be %q or %q, got %q", StoreMemory, StorePostgres, c.Database.Type)
	}

	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, c.AI.Provider)
	}

	if c.AI.Model == "" {
		return fmt.Errorf("ai.model must not be empty")
	}
	if c.AI.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("ai.request_timeout_seconds must be positive, got %d", c.AI.RequestTimeoutSeconds)
	}
	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload.max_size_bytes must be positive, got %d", c.Upload.MaxSizeBytes)
	}

	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
