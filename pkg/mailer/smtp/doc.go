// Package smtp provides an SMTP implementation of mailer.Sender built on
// gopkg.in/mail.v2.
//
// The sender composes a multipart message (plain text with an HTML
// alternative), attaches files, embeds inline parts that carry a Content-ID,
// and writes tags into an X-Tags header. A Message-ID is generated when the
// email does not set one.
//
//	sender, err := smtp.New(smtp.Config{
//		Host:        "smtp.example.com",
//		Port:        587,
//		Username:    "user",
//		Password:    "secret",
//		SenderEmail: "noreply@example.com",
//		SenderName:  "Example",
//	})
package smtp
