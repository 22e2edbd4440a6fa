// Package config loads tmplmail configuration from the environment, an
// optional dotenv file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tmplmail/pkg/logger"
	"github.com/dmitrymomot/tmplmail/pkg/mailer"
	"github.com/dmitrymomot/tmplmail/pkg/mailer/resend"
	"github.com/dmitrymomot/tmplmail/pkg/mailer/smtp"
)

// Supported delivery providers.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// ErrInvalid is returned when the loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full application configuration.
type Config struct {
	Mailer   mailer.Config       `yaml:"mailer"`
	Provider string              `env:"MAILER_PROVIDER" envDefault:"smtp" yaml:"provider"`
	SMTP     smtp.Config         `yaml:"smtp"`
	Resend   resend.Config       `yaml:"resend"`
	Log      logger.Config       `yaml:"log"`
	Sentry   logger.SentryConfig `yaml:"sentry"`
}

// Load builds a Config. Values come from the process environment (after
// loading envFile, if it exists), then the YAML file at path overlays them.
// Both paths may be empty.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))

	switch c.Provider {
	case ProviderSMTP, ProviderResend:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}

	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("%w: SMTP_PORT must be between 1 and 65535, got %d", ErrInvalid, c.SMTP.Port)
	}
	if c.Mailer.WrapWidth < 0 {
		return fmt.Errorf("%w: MAILER_WRAP_WIDTH must not be negative", ErrInvalid)
	}
	return nil
}

// Sender builds the mailer.Sender selected by Provider.
// Provider credentials are only required here, so rendering works without them.
func (c *Config) Sender() (mailer.Sender, error) {
	switch c.Provider {
	case ProviderResend:
		if strings.TrimSpace(c.Resend.APIKey) == "" {
			return nil, fmt.Errorf("%w: RESEND_API_KEY is required for the resend provider", ErrInvalid)
		}
		s, err := resend.New(c.Resend)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderSMTP:
		if strings.TrimSpace(c.SMTP.Host) == "" {
			return nil, fmt.Errorf("%w: SMTP_HOST is required for the smtp provider", ErrInvalid)
		}
		s, err := smtp.New(c.SMTP)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}
}
