package mailer

import "context"

// Sender defines the minimal interface that email providers must implement.
// It accepts a fully-prepared Email and handles the actual delivery.
type Sender interface {
	// Send delivers an email message.
	// The Email must have To, Subject, and HTML already set.
	Send(ctx context.Context, email *Email) (*DeliveryInfo, error)
}

// DeliveryInfo describes a message accepted by a Sender.
type DeliveryInfo struct {
	Provider  string // e.g. "smtp", "resend"
	MessageID string // provider-assigned or generated message identifier
}
