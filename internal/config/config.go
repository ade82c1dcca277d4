// Package config loads server and CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Production is the ENV value that switches on production defaults.
const Production = "production"

// DefaultEnvFiles are read, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

// DatabaseOptions selects the database driver and connection.
type DatabaseOptions struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3" validate:"oneof=sqlite3 postgres mysql"`
	// DSN is required for postgres and mysql. For sqlite3 it defaults to a
	// file in the data directory.
	DSN string `env:"DB_DSN"`
}

// ImportOptions tunes the import pipeline.
type ImportOptions struct {
	DefaultTimezone string        `env:"DEFAULT_TIMEZONE" validate:"omitempty,timezone"`
	GigStatuses     []string      `env:"GIG_STATUSES" envSeparator:","`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"2h" validate:"gte=0"`
	SweepSpec       string        `env:"SESSION_SWEEP_SPEC" envDefault:"@every 1m" validate:"required"`
	MaxUploadSize   int64         `env:"MAX_UPLOAD_SIZE" envDefault:"10485760" validate:"gt=0"`
}

// AMQPOptions configures the optional completion notifications.
type AMQPOptions struct {
	URL      string `env:"AMQP_URL" validate:"omitempty,url"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"gig-manager.imports"`
}

// PrometheusOptions configures the metrics endpoint.
type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/metrics" validate:"startswith=/"`
}

// Configuration is the complete runtime configuration.
type Configuration struct {
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"`
	Port        int    `env:"PORT" envDefault:"8099" validate:"gt=0,lte=65535"`
	// Addr overrides Port with a full listen address.
	Addr      string `env:"ADDR"`
	DataDir   string `env:"DATA_DIR" envDefault:"/data" validate:"required"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`

	Database   DatabaseOptions
	Import     ImportOptions
	AMQP       AMQPOptions
	Prometheus PrometheusOptions
}

// LoadEnv loads the env files that exist and returns how many were found.
// Variables already present in the environment win.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads envFiles (DefaultEnvFiles when none are given), parses the
// environment and validates the result.
func Load(envFiles ...string) (*Configuration, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("loading env files: %w", err)
	}

	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field requirements.
func (c *Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid configuration: %s fails %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Database.Driver != "sqlite3" && c.Database.DSN == "" {
		return fmt.Errorf("invalid configuration: DB_DSN is required for driver %s", c.Database.Driver)
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Configuration) IsProduction() bool {
	return c.Environment == Production
}

// Address returns the HTTP listen address.
func (c *Configuration) Address() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// DatabaseDSN returns the connection string for the configured driver.
func (c *Configuration) DatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return filepath.Join(c.DataDir, "gig-manager.db")
}
