package mailer

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
//   - SMTP: written as an X-Tags header
//   - Resend: uses name-value pairs (presence-only tags become name="true")
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// TemplateRequest selects a template, its language and the data bound to it.
type TemplateRequest struct {
	Data     any    // bound as "data" in templates
	Name     string // template directory name (required)
	Language string // translation language; falls back to the default language

	// InlineAttribute overrides the renderer's attribute mode for this request.
	InlineAttribute *bool
}

// Message is the rendered content of a template. Empty fields are absent.
type Message struct {
	Subject  string
	HTML     string
	Text     string
	Language string // language whose dictionary was used, empty if none
}

// Email represents the mail options handed to a Sender.
// Subject, HTML and Text set by the caller take precedence over rendered content.
type Email struct {
	Headers     map[string]string // Custom headers
	Tags        Tags              // Provider-specific tags/categories
	Subject     string            // Email subject
	HTML        string            // HTML body content
	Text        string            // Plain text alternative
	From        string            // Override default sender (if provider allows)
	ReplyTo     string            // Reply-to address
	To          []string          // Recipients (at least one required)
	CC          []string          // Carbon copy recipients
	BCC         []string          // Blind carbon copy recipients
	Attachments []Attachment      // File attachments
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	ContentID   string // Optional Content-ID for inline attachments
	Content     []byte // Raw file content
}

// hasRecipient reports whether at least one non-blank To address is set.
func (e *Email) hasRecipient() bool {
	if e == nil {
		return false
	}
	return slices.ContainsFunc(e.To, func(s string) bool {
		return strings.TrimSpace(s) != ""
	})
}

// withContent returns a copy of e with empty Subject, HTML and Text filled from msg.
// e itself is not modified.
func (e *Email) withContent(msg *Message) *Email {
	out := *e
	out.To = slices.Clone(e.To)
	out.CC = slices.Clone(e.CC)
	out.BCC = slices.Clone(e.BCC)
	out.Attachments = slices.Clone(e.Attachments)
	out.Headers = maps.Clone(e.Headers)
	out.Tags = maps.Clone(e.Tags)

	if msg == nil {
		return &out
	}
	if out.Subject == "" {
		out.Subject = msg.Subject
	}
	if out.HTML == "" {
		out.HTML = msg.HTML
	}
	if out.Text == "" {
		out.Text = msg.Text
	}
	return &out
}
