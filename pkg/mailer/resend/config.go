package resend

// Config holds Resend email provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY" yaml:"api_key"`
	SenderEmail string `env:"RESEND_FROM_EMAIL" yaml:"sender_email"`
	SenderName  string `env:"RESEND_FROM_NAME" yaml:"sender_name"`
	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string `env:"RESEND_BASE_URL" yaml:"base_url"`
}
