package mailer

// Defaults applied by NewFromConfig to empty Config fields.
const (
	DefaultTemplatesPath    = "templates"
	DefaultTranslationsPath = "translations"
	DefaultLanguage         = "de"
	DefaultWrapWidth        = 130
)

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	TemplatesPath    string `env:"MAILER_TEMPLATES_PATH" envDefault:"templates" yaml:"templates_path"`
	TranslationsPath string `env:"MAILER_TRANSLATIONS_PATH" envDefault:"translations" yaml:"translations_path"`
	DefaultLanguage  string `env:"MAILER_DEFAULT_LANGUAGE" envDefault:"de" yaml:"default_language"`
	FallbackSubject  string `env:"MAILER_FALLBACK_SUBJECT" yaml:"fallback_subject"`

	WrapWidth int `env:"MAILER_WRAP_WIDTH" envDefault:"130" yaml:"wrap_width"`

	// InlineAttribute limits asset inlining to elements marked with the
	// "inline" attribute. Requests may override it.
	InlineAttribute    bool `env:"MAILER_INLINE_ATTRIBUTE" yaml:"inline_attribute"`
	DisableCompression bool `env:"MAILER_DISABLE_COMPRESSION" yaml:"disable_compression"`
	MatchBaseLanguage  bool `env:"MAILER_MATCH_BASE_LANGUAGE" yaml:"match_base_language"`
	CacheTemplates     bool `env:"MAILER_CACHE_TEMPLATES" yaml:"cache_templates"`
}

func (c Config) withDefaults() Config {
	if c.TemplatesPath == "" {
		c.TemplatesPath = DefaultTemplatesPath
	}
	if c.TranslationsPath == "" {
		c.TranslationsPath = DefaultTranslationsPath
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.WrapWidth <= 0 {
		c.WrapWidth = DefaultWrapWidth
	}
	return c
}
