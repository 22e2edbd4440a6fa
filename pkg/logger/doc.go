// Package logger builds slog loggers for the mailer and its command line tool.
//
// It adds two things on top of log/slog: context extractors that inject
// request-scoped attributes on every call, and optional Sentry fan-out.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: slog.LevelDebug, Format: "text"},
//		logger.ContextAttrs,
//	)
//
//	ctx = logger.WithAttrs(ctx, slog.String("template", "welcome"))
//	log.InfoContext(ctx, "message sent")
//	// level=INFO msg="message sent" ctx.template=welcome
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(cfg, logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}, logger.ContextAttrs)
//
// Error records create Sentry issues, warnings are kept as Sentry logs. With
// an empty DSN the logger writes locally only, so the same code path works in
// development.
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of a context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call. ContextAttrs is the built-in extractor
// for attributes attached with WithAttrs.
//
// Libraries in this module default to NewNope when no logger is configured.
package logger
