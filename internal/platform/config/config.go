// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. A local '.env' file, when present, is loaded first with 'joho/godotenv'
so development machines do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, blob store) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/memry/photobook/pkg/query"
)

// # Blob Drivers

const (
	// BlobDriverS3 talks to AWS S3 or any S3-compatible endpoint (R2) through aws-sdk-go-v2.
	BlobDriverS3 = "s3"

	// BlobDriverMinio talks to a MinIO server through minio-go.
	BlobDriverMinio = "minio"
)

// # Configuration Schema

// Config holds all runtime configuration for the photobook API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis): wizard, editor and admin sessions
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for admin token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Session lifetimes
	AdminSessionTTL  time.Duration `env:"ADMIN_SESSION_TTL"  envDefault:"12h"`
	WizardSessionTTL time.Duration `env:"WIZARD_SESSION_TTL" envDefault:"24h"`
	EditorSessionTTL time.Duration `env:"EDITOR_SESSION_TTL" envDefault:"6h"`

	// UploadURLTTL bounds the validity of a presigned upload target.
	UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL" envDefault:"15m"`

	// Object Storage (S3 / Cloudflare R2 / MinIO)
	BlobDriver      string        `env:"BLOB_DRIVER"        envDefault:"s3"`
	S3Bucket        string        `env:"S3_BUCKET,required,notEmpty"`
	S3Region        string        `env:"S3_REGION"          envDefault:"auto"`
	S3Endpoint      string        `env:"S3_ENDPOINT"`
	S3AccessKey     string        `env:"S3_ACCESS_KEY"`
	S3SecretKey     string        `env:"S3_SECRET_KEY"`
	S3UseSSL        bool          `env:"S3_USE_SSL"         envDefault:"true"`
	S3PathStyle     bool          `env:"S3_PATH_STYLE"      envDefault:"false"`
	S3PublicBaseURL string        `env:"S3_PUBLIC_BASE_URL"`
	S3PresignGetTTL time.Duration `env:"S3_PRESIGN_GET_TTL" envDefault:"168h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env is the normal case in containers
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current environment onto a [Config] and validates it.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field constraints env tags cannot express.
func (c *Config) validate() error {
	switch c.BlobDriver {
	case BlobDriverS3:
	case BlobDriverMinio:
		if c.S3Endpoint == "" {
			return fmt.Errorf("config: S3_ENDPOINT is required for the %q blob driver", BlobDriverMinio)
		}
	default:
		return fmt.Errorf("config: unknown BLOB_DRIVER %q", c.BlobDriver)
	}

	if c.UploadURLTTL <= 0 {
		return fmt.Errorf("config: UPLOAD_URL_TTL must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins from EXTRA_ORIGINS (comma separated).
func (c *Config) AllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
