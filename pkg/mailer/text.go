package mailer

import (
	"github.com/jaytaylor/html2text"
	"github.com/mitchellh/go-wordwrap"
)

// PlainText derives a plain-text alternative from rendered HTML.
// Tags are stripped, links are kept as "text ( url )" and lines are wrapped
// at width columns (no wrapping when width <= 0).
func PlainText(htmlContent string, width int) (string, error) {
	if htmlContent == "" {
		return "", nil
	}

	text, err := html2text.FromString(htmlContent, html2text.Options{})
	if err != nil {
		return "", err
	}

	if width > 0 {
		text = wordwrap.WrapString(text, uint(width))
	}
	return text, nil
}
