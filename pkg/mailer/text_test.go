package mailer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplmail/pkg/mailer"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	t.Run("strips tags and keeps links", func(t *testing.T) {
		t.Parallel()

		text, err := mailer.PlainText(`<html><body><h1>Hello</h1><p>Read <a href="https://example.com/news">the news</a>.</p></body></html>`, 130)
		require.NoError(t, err)
		require.Contains(t, text, "Hello")
		require.Contains(t, text, "https://example.com/news")
		require.NotContains(t, text, "<p>")
	})

	t.Run("wraps long lines", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("word ", 60)
		text, err := mailer.PlainText("<p>"+long+"</p>", 40)
		require.NoError(t, err)
		for line := range strings.SplitSeq(text, "\n") {
			require.LessOrEqual(t, len(line), 40)
		}
	})

	t.Run("empty html", func(t *testing.T) {
		t.Parallel()

		text, err := mailer.PlainText("", 130)
		require.NoError(t, err)
		require.Empty(t, text)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		html := `<div><p>One</p><ul><li>a</li><li>b</li></ul></div>`
		first, err := mailer.PlainText(html, 130)
		require.NoError(t, err)
		second, err := mailer.PlainText(html, 130)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}
