package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/tmplmail/pkg/logger"
	"github.com/dmitrymomot/tmplmail/pkg/translations"
)

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender          Sender
	renderer        *Renderer
	logger          *slog.Logger
	errorHandler    func(error)
	fallbackSubject string
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger for delivery and error reporting.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mailer) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithErrorHandler registers a handler that observes every per-request error
// (and, with NewFromConfig, every skipped translation file). Errors are still
// returned to the caller; the handler replaces the default error log line.
func WithErrorHandler(handler func(error)) Option {
	return func(m *Mailer) {
		m.errorHandler = handler
	}
}

// WithFallbackSubject sets the subject used when neither the caller nor the
// translations provide one.
func WithFallbackSubject(subject string) Option {
	return func(m *Mailer) {
		m.fallbackSubject = subject
	}
}

// New creates a new Mailer with the given sender and renderer.
func New(sender Sender, renderer *Renderer, opts ...Option) *Mailer {
	m := &Mailer{
		sender:   sender,
		renderer: renderer,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromConfig loads translations and templates from the paths in cfg.
// Missing or unreadable directories fail with ErrConfiguration.
func NewFromConfig(cfg Config, sender Sender, opts ...Option) (*Mailer, error) {
	cfg = cfg.withDefaults()
	m := New(sender, nil, opts...)
	if cfg.FallbackSubject != "" && m.fallbackSubject == "" {
		m.fallbackSubject = cfg.FallbackSubject
	}

	storeOpts := []translations.Option{translations.WithLogger(m.logger)}
	if m.errorHandler != nil {
		storeOpts = append(storeOpts, translations.WithErrorHandler(m.errorHandler))
	}
	store, err := translations.New(cfg.TranslationsPath, storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	info, err := os.Stat(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: templates path %s: %v", ErrConfiguration, cfg.TemplatesPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: templates path %s is not a directory", ErrConfiguration, cfg.TemplatesPath)
	}

	m.renderer = NewRendererWithConfig(os.DirFS(cfg.TemplatesPath), store, RendererConfig{
		Logger:             m.logger,
		DefaultLanguage:    cfg.DefaultLanguage,
		WrapWidth:          cfg.WrapWidth,
		InlineAttribute:    cfg.InlineAttribute,
		DisableCompression: cfg.DisableCompression,
		MatchBaseLanguage:  cfg.MatchBaseLanguage,
		CacheTemplates:     cfg.CacheTemplates,
	})

	m.logger.Info("mailer initialized",
		slog.String("templates", cfg.TemplatesPath),
		slog.String("translations", cfg.TranslationsPath),
		slog.Any("languages", store.Languages()),
	)
	return m, nil
}

// Renderer returns the renderer used by the mailer.
func (m *Mailer) Renderer() *Renderer {
	return m.renderer
}

// Render renders a template without sending it.
func (m *Mailer) Render(ctx context.Context, req TemplateRequest) (*Message, error) {
	ctx = requestContext(ctx, req)

	msg, err := m.renderer.Render(ctx, req)
	if err != nil {
		return nil, m.fail(ctx, err)
	}
	return msg, nil
}

// Send renders the template and sends it with the options in email.
// Subject, HTML and Text already set on email win over rendered values;
// email itself is not modified. Nothing is sent if rendering fails.
func (m *Mailer) Send(ctx context.Context, req TemplateRequest, email *Email) (*DeliveryInfo, error) {
	ctx = requestContext(ctx, req)

	if !email.hasRecipient() {
		return nil, m.fail(ctx, ErrNoRecipient)
	}

	msg, err := m.renderer.Render(ctx, req)
	if err != nil {
		return nil, m.fail(ctx, err)
	}

	out := email.withContent(msg)
	if out.Subject == "" {
		out.Subject = m.fallbackSubject
	}

	return m.deliver(ctx, out)
}

// SendRaw sends a pre-built email without template rendering.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) (*DeliveryInfo, error) {
	switch {
	case !email.hasRecipient():
		return nil, m.fail(ctx, ErrNoRecipient)
	case email.Subject == "":
		return nil, m.fail(ctx, ErrNoSubject)
	case email.HTML == "":
		return nil, m.fail(ctx, ErrNoContent)
	}

	return m.deliver(ctx, email.withContent(nil))
}

func (m *Mailer) deliver(ctx context.Context, email *Email) (*DeliveryInfo, error) {
	if m.sender == nil {
		return nil, m.fail(ctx, fmt.Errorf("%w: no sender configured", ErrConfiguration))
	}

	info, err := m.sender.Send(ctx, email)
	if err != nil {
		return nil, m.fail(ctx, fmt.Errorf("%w: %w", ErrDelivery, err))
	}
	if info == nil {
		info = &DeliveryInfo{}
	}

	m.logger.InfoContext(ctx, "message sent",
		slog.Any("to", email.To),
		slog.String("provider", info.Provider),
		slog.String("message_id", info.MessageID),
	)
	return info, nil
}

// fail reports err to the error handler, or logs it, and returns it unchanged.
func (m *Mailer) fail(ctx context.Context, err error) error {
	if m.errorHandler != nil {
		m.errorHandler(err)
		return err
	}
	m.logger.ErrorContext(ctx, "mailer error", slog.String("error", err.Error()))
	return err
}

func requestContext(ctx context.Context, req TemplateRequest) context.Context {
	return logger.WithAttrs(ctx,
		slog.String("template", req.Name),
		slog.String("language", req.Language),
	)
}
