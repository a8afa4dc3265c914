// Package config loads the application configuration from defaults, an
// optional YAML file and HERONET_* environment overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Duration wraps time.Duration so YAML files can write "30s" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Data     DataConfig     `yaml:"data"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Site     SiteConfig     `yaml:"site"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Publish  PublishConfig  `yaml:"publish"`
}

// LogConfig selects the logger output.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string   `yaml:"addr" validate:"required"`
	ReadTimeout     Duration `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout    Duration `yaml:"write_timeout" validate:"min=0"`
	IdleTimeout     Duration `yaml:"idle_timeout" validate:"min=0"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" validate:"min=0"`
	// CORSOrigins lists the origins allowed to call the API. Empty
	// disables cross-origin requests.
	CORSOrigins  []string `yaml:"cors_origins"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" validate:"min=1024"`
}

// AuthConfig holds the token settings. Auth stays off until a secret
// is configured.
type AuthConfig struct {
	Enabled       bool     `yaml:"enabled"`
	JWTSecret     string   `yaml:"jwt_secret"`
	TokenTTL      Duration `yaml:"token_ttl" validate:"min=0"`
	RefreshTTL    Duration `yaml:"refresh_ttl" validate:"min=0"`
	AdminUser     string   `yaml:"admin_user"`
	AdminPassword string   `yaml:"admin_password"`
}

// DataConfig points at the character network CSV files.
type DataConfig struct {
	NodesFile  string `yaml:"nodes_file" validate:"required"`
	EdgesFile  string `yaml:"edges_file" validate:"required"`
	SkipVerify bool   `yaml:"skip_verify"`
}

// AnalysisConfig tunes the metric run.
type AnalysisConfig struct {
	TopK        int  `yaml:"top_k" validate:"min=1,max=100"`
	Communities bool `yaml:"communities"`
}

// SiteConfig controls static site generation.
type SiteConfig struct {
	OutputDir string `yaml:"output_dir" validate:"required"`
}

// ArchiveConfig configures the optional Postgres run archive.
type ArchiveConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
}

// PublishConfig configures the S3 target for publishing a site.
type PublishConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
			MaxBodyBytes:    1 << 20,
		},
		Auth: AuthConfig{
			TokenTTL:   Duration(15 * time.Minute),
			RefreshTTL: Duration(7 * 24 * time.Hour),
			AdminUser:  "admin",
		},
		Data: DataConfig{
			NodesFile: "data/nodes.csv",
			EdgesFile: "data/edges.csv",
		},
		Analysis: AnalysisConfig{
			TopK:        10,
			Communities: true,
		},
		Site: SiteConfig{
			OutputDir: "site",
		},
		Publish: PublishConfig{
			Region: "us-east-1",
		},
	}
}

// Load builds the configuration. An empty path skips the file stage;
// a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOverrides maps HERONET_* variables onto config fields.
func (c *Config) applyEnv() {
	set := func(key string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
	set("HERONET_LOG_LEVEL", &c.Log.Level)
	set("HERONET_LOG_FORMAT", &c.Log.Format)
	set("HERONET_ADDR", &c.Server.Addr)
	set("HERONET_JWT_SECRET", &c.Auth.JWTSecret)
	set("HERONET_ADMIN_USER", &c.Auth.AdminUser)
	set("HERONET_ADMIN_PASSWORD", &c.Auth.AdminPassword)
	set("HERONET_NODES_FILE", &c.Data.NodesFile)
	set("HERONET_EDGES_FILE", &c.Data.EdgesFile)
	set("HERONET_SITE_DIR", &c.Site.OutputDir)
	set("HERONET_DATABASE_URL", &c.Archive.DatabaseURL)
	set("HERONET_S3_BUCKET", &c.Publish.Bucket)
	set("HERONET_S3_REGION", &c.Publish.Region)
	set("HERONET_S3_PREFIX", &c.Publish.Prefix)

	if v := os.Getenv("HERONET_CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i, o := range origins {
			origins[i] = strings.TrimSpace(o)
		}
		c.Server.CORSOrigins = origins
	}
	if os.Getenv("HERONET_JWT_SECRET") != "" {
		c.Auth.Enabled = true
	}
	if os.Getenv("HERONET_DATABASE_URL") != "" {
		c.Archive.Enabled = true
	}
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Auth.Enabled && len(c.Auth.JWTSecret) < 32 {
		return errors.New("auth.jwt_secret: must be at least 32 characters when auth is enabled")
	}
	if c.Archive.Enabled && c.Archive.DatabaseURL == "" {
		return errors.New("archive.database_url: required when the archive is enabled")
	}
	return nil
}

// formatValidationError converts validator errors to field messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
