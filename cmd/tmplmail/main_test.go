package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupWorkspace writes a template and translations to a temp dir and points
// the mailer env at them.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"templates/welcome/template.html": `<html><body><p>Hello {{data.name}}</p></body></html>`,
		"translations/en.json":            `{"welcome":"Hi {{data.name}}"}`,
		"translations/de.json":            `{"welcome":"Hallo {{data.name}}"}`,
		"data.yaml":                       "name: Yaml\n",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}

	t.Setenv("MAILER_TEMPLATES_PATH", filepath.Join(dir, "templates"))
	t.Setenv("MAILER_TRANSLATIONS_PATH", filepath.Join(dir, "translations"))
	t.Setenv("MAILER_DEFAULT_LANGUAGE", "en")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SENTRY_DSN", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := setupWorkspace(t)

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "render", "welcome", "--lang", "de", "--data", `{"name":"Ann"}`, "--format", "json")
		require.NoError(t, err)

		var msg map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &msg))
		assert.Equal(t, "Hallo Ann", msg["subject"])
		assert.Equal(t, "de", msg["language"])
		assert.Contains(t, msg["html"], "<p>Hello Ann</p>")
		assert.Contains(t, msg["text"], "Hello Ann")
	})

	t.Run("yaml data file", func(t *testing.T) {
		out, _, err := execute(t, "render", "welcome", "--data", "@"+filepath.Join(dir, "data.yaml"), "--format", "subject")
		require.NoError(t, err)
		assert.Equal(t, "Hi Yaml\n", out)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, err := execute(t, "render", "missing")
		require.Error(t, err)
	})

	t.Run("bad data", func(t *testing.T) {
		_, _, err := execute(t, "render", "welcome", "--data", "{nope")
		require.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := execute(t, "render", "welcome", "--format", "pdf")
		require.Error(t, err)
	})
}

func TestListCommands(t *testing.T) {
	setupWorkspace(t)

	out, _, err := execute(t, "languages")
	require.NoError(t, err)
	assert.Equal(t, "de\nen\n", out)

	out, _, err = execute(t, "templates")
	require.NoError(t, err)
	assert.Equal(t, "welcome\n", out)
}

func TestSendCommand(t *testing.T) {
	setupWorkspace(t)

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_42"}`))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("MAILER_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("RESEND_BASE_URL", srv.URL)
	t.Setenv("RESEND_FROM_EMAIL", "team@example.com")

	out, _, err := execute(t, "send", "welcome", "--to", "ann@example.com", "--data", `{"name":"Ann"}`)
	require.NoError(t, err)
	assert.Equal(t, "sent via resend: email_42\n", out)

	require.NotNil(t, got)
	assert.Equal(t, "Hi Ann", got["subject"])
	assert.Equal(t, []any{"ann@example.com"}, got["to"])
}

func TestSendCommand_RequiresRecipient(t *testing.T) {
	setupWorkspace(t)

	_, _, err := execute(t, "send", "welcome")
	require.Error(t, err)
}

func TestParseData(t *testing.T) {
	t.Parallel()

	data, err := parseData("")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = parseData(`{"n":1}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(1)}, data)

	_, err = parseData("@" + filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
