package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/google/uuid"
	gomail "gopkg.in/mail.v2"

	"github.com/dmitrymomot/tmplmail/pkg/mailer"
)

// ProviderName is reported in mailer.DeliveryInfo.
const ProviderName = "smtp"

var (
	// ErrNoHost indicates the SMTP host is not configured.
	ErrNoHost = errors.New("smtp: host is required")

	// ErrNoSender indicates neither the email nor the config provides a From address.
	ErrNoSender = errors.New("smtp: no sender address configured")
)

// Dialer delivers prepared messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender implements mailer.Sender over SMTP.
type Sender struct {
	dialer Dialer
	config Config
}

// Option configures a Sender.
type Option func(*Sender)

// WithDialer replaces the SMTP dialer, e.g. with a fake in tests.
func WithDialer(d Dialer) Option {
	return func(s *Sender) {
		if d != nil {
			s.dialer = d
		}
	}
}

// New creates a new SMTP sender.
func New(cfg Config, opts ...Option) (*Sender, error) {
	s := &Sender{config: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.dialer == nil {
		if cfg.Host == "" {
			return nil, ErrNoHost
		}
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		d.SSL = cfg.SSL
		if cfg.Timeout > 0 {
			d.Timeout = cfg.Timeout
		}
		if cfg.RequireTLS {
			d.StartTLSPolicy = gomail.MandatoryStartTLS
		}
		s.dialer = d
	}
	return s, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (*mailer.DeliveryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}

	msg, messageID, err := s.buildMessage(email)
	if err != nil {
		return nil, err
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		return nil, fmt.Errorf("smtp: failed to send email: %w", err)
	}

	return &mailer.DeliveryInfo{Provider: ProviderName, MessageID: messageID}, nil
}

func (s *Sender) buildMessage(email *mailer.Email) (*gomail.Message, string, error) {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}
	if from == "" {
		return nil, "", ErrNoSender
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", email.To...)
	if len(email.CC) > 0 {
		msg.SetHeader("Cc", email.CC...)
	}
	if len(email.BCC) > 0 {
		msg.SetHeader("Bcc", email.BCC...)
	}
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	msg.SetHeader("Subject", email.Subject)

	messageID := ""
	for k, v := range email.Headers {
		if strings.EqualFold(k, "Message-ID") {
			messageID = v
		}
		msg.SetHeader(k, v)
	}
	if messageID == "" {
		messageID = fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(s.config.SenderEmail, from))
		msg.SetHeader("Message-ID", messageID)
	}

	if tags := formatTags(email.Tags); tags != "" {
		msg.SetHeader("X-Tags", tags)
	}

	switch {
	case email.Text != "" && email.HTML != "":
		msg.SetBody("text/plain", email.Text)
		msg.AddAlternative("text/html", email.HTML)
	case email.HTML != "":
		msg.SetBody("text/html", email.HTML)
	default:
		msg.SetBody("text/plain", email.Text)
	}

	for _, a := range email.Attachments {
		settings := []gomail.FileSetting{gomail.SetCopyFunc(copyBytes(a.Content))}
		header := map[string][]string{}
		if a.ContentType != "" {
			header["Content-Type"] = []string{a.ContentType}
		}
		if a.ContentID != "" {
			header["Content-ID"] = []string{"<" + strings.Trim(a.ContentID, "<>") + ">"}
		}
		if len(header) > 0 {
			settings = append(settings, gomail.SetHeader(header))
		}

		if a.ContentID != "" {
			msg.Embed(a.Filename, settings...)
		} else {
			msg.Attach(a.Filename, settings...)
		}
	}

	return msg, messageID, nil
}

func copyBytes(content []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}
}

func domainOf(addresses ...string) string {
	for _, addr := range addresses {
		addr = strings.TrimSuffix(strings.TrimSpace(addr), ">")
		if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
			return addr[i+1:]
		}
	}
	return "localhost"
}

func formatTags(tags mailer.Tags) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for name, value := range tags {
		switch v := value.(type) {
		case nil, struct{}:
			parts = append(parts, name)
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", name, v))
		}
	}
	slices.Sort(parts)
	return strings.Join(parts, ", ")
}
