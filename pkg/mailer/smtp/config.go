package smtp

import "time"

// Config holds SMTP provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host        string `env:"SMTP_HOST" yaml:"host"`
	Username    string `env:"SMTP_USERNAME" yaml:"username"`
	Password    string `env:"SMTP_PASSWORD" yaml:"password"`
	SenderEmail string `env:"SMTP_FROM_EMAIL" yaml:"sender_email"`
	SenderName  string `env:"SMTP_FROM_NAME" yaml:"sender_name"`

	Port    int           `env:"SMTP_PORT" envDefault:"587" yaml:"port"`
	Timeout time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s" yaml:"timeout"`

	// SSL uses implicit TLS (usually port 465).
	SSL bool `env:"SMTP_SSL" yaml:"ssl"`
	// RequireTLS refuses to send if the server does not offer STARTTLS.
	RequireTLS bool `env:"SMTP_REQUIRE_TLS" yaml:"require_tls"`
}
