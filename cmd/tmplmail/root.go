package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tmplmail/internal/config"
	"github.com/dmitrymomot/tmplmail/pkg/logger"
	"github.com/dmitrymomot/tmplmail/pkg/mailer"
)

type app struct {
	configPath string
	envFile    string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "tmplmail",
		Short:        "Render and send localized template emails",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath, a.envFile)
			if err != nil {
				return err
			}
			// stdout carries rendered output; logs go to stderr.
			cfg.Log.Output = cmd.ErrOrStderr()

			a.cfg = cfg
			a.log = logger.NewWithSentry(cfg.Log, cfg.Sentry, logger.ContextAttrs)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment (ignored if missing)")

	root.AddCommand(
		a.renderCmd(),
		a.sendCmd(),
		a.languagesCmd(),
		a.templatesCmd(),
		a.previewCmd(),
	)
	return root
}

// mailer builds a Mailer from the loaded config. A nil sender is fine for
// commands that only render.
func (a *app) mailer(sender mailer.Sender) (*mailer.Mailer, error) {
	return mailer.NewFromConfig(a.cfg.Mailer, sender, mailer.WithLogger(a.log))
}
