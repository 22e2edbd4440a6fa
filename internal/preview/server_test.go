package preview_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplmail/internal/preview"
	"github.com/dmitrymomot/tmplmail/pkg/mailer"
	"github.com/dmitrymomot/tmplmail/pkg/translations"
)

func newServer(t *testing.T, fsys fstest.MapFS) *preview.Server {
	t.Helper()
	store := translations.FromMap(map[string]translations.Dictionary{
		"en": {"welcome": "Hi {{data.name}}"},
		"de": {"welcome": "Hallo {{data.name}}"},
	})
	r := mailer.NewRendererWithConfig(fsys, store, mailer.RendererConfig{DefaultLanguage: "en"})
	return preview.New(r)
}

func fixtures() fstest.MapFS {
	return fstest.MapFS{
		"welcome/template.html": &fstest.MapFile{Data: []byte(`<p>Hello {{data.name}}</p>`)},
		"broken/template.html":  &fstest.MapFile{Data: []byte(`<p>{{#data.open}}</p>`)},
		"partials/footer.html":  &fstest.MapFile{Data: []byte(`bye`)},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, fixtures()), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Templates []string `json:"templates"`
		Languages []string `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"broken", "welcome"}, body.Templates)
	assert.Equal(t, []string{"de", "en"}, body.Languages)
}

func TestServer_HTML(t *testing.T) {
	t.Parallel()

	data := url.QueryEscape(`{"name":"Ann"}`)
	rec := get(t, newServer(t, fixtures()), "/welcome?lang=de&data="+data)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Hallo Ann", rec.Header().Get("X-Mail-Subject"))
	assert.Equal(t, "<p>Hello Ann</p>", rec.Body.String())
}

func TestServer_Text(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, fixtures()), "/welcome/text?data="+url.QueryEscape(`{"name":"Bo"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello Bo")
}

func TestServer_Message(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, fixtures()), "/welcome/message?lang=en&data="+url.QueryEscape(`{"name":"Cy"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Hi Cy", body["subject"])
	assert.Equal(t, "<p>Hello Cy</p>", body["html"])
	assert.Contains(t, body["text"], "Hello Cy")
	assert.Equal(t, "en", body["language"])
}

func TestServer_Errors(t *testing.T) {
	t.Parallel()

	srv := newServer(t, fixtures())

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown template", "/missing", http.StatusNotFound},
		{"invalid template name", "/..", http.StatusBadRequest},
		{"malformed data", "/welcome?data=%7Bnope", http.StatusBadRequest},
		{"template syntax error", "/broken", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := get(t, srv, tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newServer(t, fixtures()), "/health/live")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newServer(t, fixtures()), "/health/ready?format=json")
		require.Equal(t, http.StatusOK, rec.Code)

		var body preview.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, preview.StatusHealthy, body.Status)
		assert.Equal(t, preview.StatusHealthy, body.Checks["templates"].Status)
	})

	t.Run("not ready without templates", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newServer(t, fstest.MapFS{}), "/health/ready?format=json")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body preview.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, preview.StatusUnhealthy, body.Status)
		assert.Equal(t, preview.ErrNoTemplates.Error(), body.Checks["templates"].Error)
	})
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)

	go func() {
		done <- preview.Serve(ctx, "127.0.0.1:0", newServer(t, fixtures()), nil, func(a net.Addr) { addrCh <- a })
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr.String() + "/health/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_AcceptLanguage(t *testing.T) {
	t.Parallel()

	srv := newServer(t, fixtures())
	data := url.QueryEscape(`{"name":"Eve"}`)

	tests := []struct {
		name    string
		target  string
		header  string
		subject string
	}{
		{"header match", "/welcome?data=" + data, "de-DE,de;q=0.9,en;q=0.5", "Hallo Eve"},
		{"quality order", "/welcome?data=" + data, "de;q=0.2,en;q=0.8", "Hi Eve"},
		{"no match uses default", "/welcome?data=" + data, "fr-FR", "Hi Eve"},
		{"query wins", "/welcome?lang=de&data=" + data, "en", "Hallo Eve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Header.Set("Accept-Language", tt.header)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.subject, rec.Header().Get("X-Mail-Subject"))
		})
	}
}
