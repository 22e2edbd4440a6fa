package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tmplmail/internal/preview"
	"github.com/dmitrymomot/tmplmail/pkg/mailer"
)

type renderFlags struct {
	lang string
	data string
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "translation language (defaults to the configured default language)")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", `template data as JSON, or @file.json / @file.yaml`)
}

func (f *renderFlags) request(name string) (mailer.TemplateRequest, error) {
	data, err := parseData(f.data)
	if err != nil {
		return mailer.TemplateRequest{}, err
	}
	return mailer.TemplateRequest{Name: name, Language: f.lang, Data: data}, nil
}

func (a *app) renderCmd() *cobra.Command {
	var (
		rf     renderFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(args[0])
			if err != nil {
				return err
			}
			m, err := a.mailer(nil)
			if err != nil {
				return err
			}
			msg, err := m.Render(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "html":
				_, err = fmt.Fprintln(out, msg.HTML)
			case "text":
				_, err = fmt.Fprintln(out, msg.Text)
			case "subject":
				_, err = fmt.Fprintln(out, msg.Subject)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(map[string]string{
					"subject":  msg.Subject,
					"html":     msg.HTML,
					"text":     msg.Text,
					"language": msg.Language,
				})
			default:
				return fmt.Errorf("unknown format %q (html|text|subject|json)", format)
			}
			return err
		},
	}
	rf.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format: html|text|subject|json")
	return cmd
}

func (a *app) sendCmd() *cobra.Command {
	var (
		rf    renderFlags
		email mailer.Email
		tags  []string
	)

	cmd := &cobra.Command{
		Use:   "send <template>",
		Short: "Render a template and deliver it with the configured provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(args[0])
			if err != nil {
				return err
			}
			sender, err := a.cfg.Sender()
			if err != nil {
				return err
			}
			m, err := a.mailer(sender)
			if err != nil {
				return err
			}

			if len(tags) > 0 {
				email.Tags = mailer.SimpleTags(tags...)
			}
			info, err := m.Send(cmd.Context(), req, &email)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent via %s: %s\n", info.Provider, info.MessageID)
			return err
		},
	}
	rf.bind(cmd)
	cmd.Flags().StringSliceVar(&email.To, "to", nil, "recipient address (repeatable)")
	cmd.Flags().StringSliceVar(&email.CC, "cc", nil, "carbon copy address (repeatable)")
	cmd.Flags().StringSliceVar(&email.BCC, "bcc", nil, "blind carbon copy address (repeatable)")
	cmd.Flags().StringVar(&email.From, "from", "", "sender address, overrides the provider default")
	cmd.Flags().StringVar(&email.ReplyTo, "reply-to", "", "reply-to address")
	cmd.Flags().StringVar(&email.Subject, "subject", "", "subject, overrides the translated one")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "provider tag (repeatable)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *app) languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List languages found in the translations directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.mailer(nil)
			if err != nil {
				return err
			}
			for _, lang := range m.Renderer().Languages() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List templates found in the templates directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.mailer(nil)
			if err != nil {
				return err
			}
			names, err := m.Renderer().Templates()
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) previewCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve rendered templates over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.mailer(nil)
			if err != nil {
				return err
			}
			srv := preview.New(m.Renderer(), preview.WithLogger(a.log))
			return preview.Serve(cmd.Context(), addr, srv, a.log, func(bound net.Addr) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "preview at http://%s/\n", bound)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}

// parseData decodes --data. A leading "@" reads the named file; .yaml and
// .yml files are decoded as YAML, everything else as JSON.
func parseData(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}

	content := []byte(raw)
	isYAML := false
	if name, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		content = b
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			isYAML = true
		}
	}

	var data map[string]any
	if isYAML {
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, fmt.Errorf("parse data: %w", err)
		}
		return data, nil
	}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse data: %w", err)
	}
	return data, nil
}
