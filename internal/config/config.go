package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	DefaultModel = "gemini-2.5-flash"
)

// Config holds startup configuration. The model API key is deliberately not
// part of it: the summary client reads the credential at call time.
type Config struct {
	Port         string `env:"PORT"          envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/summaries.db"`
	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`

	// Generative AI backend
	Provider string `env:"AI_PROVIDER" envDefault:"gemini"`
	Model    string `env:"AI_MODEL"`
	BaseURL  string `env:"AI_BASE_URL"`

	// Selection allow-list: exact MIME types or "prefix/*" wildcards
	AllowedTypes []string `env:"ALLOWED_TYPES" envDefault:"application/pdf,image/*" envSeparator:","`

	// Upload limit for the HTTP surface
	MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"20971520"`

	// S3 archive, disabled when the endpoint is empty
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"     envDefault:"minioadmin"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" envDefault:"minioadmin"`
	S3BucketName      string `env:"S3_BUCKET_NAME"       envDefault:"documents"`
	S3UseSSL          bool   `env:"S3_USE_SSL"           envDefault:"false"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case in containers.
	_ = godotenv.Load()

	return Parse(env.Options{})
}

// Parse builds a Config from the process environment, or from
// opts.Environment when set.
func Parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	provider, err := NormalizeProvider(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("AI_PROVIDER: %w", err)
	}
	cfg.Provider = provider

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	types := cfg.AllowedTypes[:0]
	for _, t := range cfg.AllowedTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("ALLOWED_TYPES must name at least one type")
	}
	cfg.AllowedTypes = types

	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return &cfg, nil
}

// NormalizeProvider lowercases and trims a provider name and checks it is known.
func NormalizeProvider(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case ProviderGemini, ProviderOpenRouter:
		return provider, nil
	default:
		return "", fmt.Errorf("unsupported provider %q", provider)
	}
}

func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != ""
}
