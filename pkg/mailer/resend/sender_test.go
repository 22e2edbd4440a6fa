package resend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplmail/pkg/mailer"
	"github.com/dmitrymomot/tmplmail/pkg/mailer/resend"
)

func TestSender_Send(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer re_test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	t.Cleanup(srv.Close)

	sender, err := resend.New(resend.Config{
		APIKey:      "re_test",
		SenderEmail: "team@example.com",
		SenderName:  "Team",
		BaseURL:     srv.URL,
	})
	require.NoError(t, err)

	info, err := sender.Send(context.Background(), &mailer.Email{
		To:      []string{"ann@example.com"},
		Subject: "Hi Ann",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
		Tags:    mailer.SimpleTags("welcome"),
	})
	require.NoError(t, err)
	require.Equal(t, "resend", info.Provider)
	require.Equal(t, "email_123", info.MessageID)

	require.Equal(t, "Team <team@example.com>", got["from"])
	require.Equal(t, []any{"ann@example.com"}, got["to"])
	require.Equal(t, "Hi Ann", got["subject"])
	require.Equal(t, "<p>Hi</p>", got["html"])
	require.Equal(t, []any{map[string]any{"name": "welcome", "value": "true"}}, got["tags"])
}

func TestSender_Send_ProviderError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	t.Cleanup(srv.Close)

	sender, err := resend.New(resend.Config{APIKey: "re_test", SenderEmail: "team@example.com", BaseURL: srv.URL})
	require.NoError(t, err)

	info, err := sender.Send(context.Background(), &mailer.Email{To: []string{"x"}, Subject: "S", HTML: "<p>x</p>"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "resend: failed to send email")
	require.Nil(t, info)
}

func TestSender_Send_NoSender(t *testing.T) {
	t.Parallel()

	sender, err := resend.New(resend.Config{APIKey: "re_test"})
	require.NoError(t, err)

	_, err = sender.Send(context.Background(), &mailer.Email{To: []string{"a@example.com"}})
	require.ErrorIs(t, err, resend.ErrNoSender)
}
