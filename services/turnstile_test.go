package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTurnstileServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	old := turnstileVerifyURL
	turnstileVerifyURL = server.URL
	t.Cleanup(func() {
		turnstileVerifyURL = old
		server.Close()
	})
}

func TestVerifyTurnstileToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		status  int
		body    string
		want    bool
		errPart string
	}{
		{"Accepted", "tok", http.StatusOK, `{"success":true,"hostname":"franchise.example.com"}`, true, ""},
		{"Rejected", "tok", http.StatusOK, `{"success":false,"error-codes":["timeout-or-duplicate"]}`, false, "timeout-or-duplicate"},
		{"Cloudflare outage", "tok", http.StatusServiceUnavailable, `{}`, false, "HTTP 503"},
		{"Blank token", "  ", http.StatusOK, `{"success":true}`, false, "token missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTurnstileServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			ok, err := VerifyTurnstileToken(context.Background(), tt.token, "secret", "")
			assert.Equal(t, tt.want, ok)
			if tt.errPart == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errPart)
			}
		})
	}
}

func TestVerifyTurnstileTokenForm(t *testing.T) {
	var got map[string]string
	withTurnstileServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"secret":   r.PostForm.Get("secret"),
			"response": r.PostForm.Get("response"),
			"remoteip": r.PostForm.Get("remoteip"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	ok, err := VerifyTurnstileToken(context.Background(), "tok", "secret", "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"secret": "secret", "response": "tok", "remoteip": "203.0.113.9"}, got)

	_, err = VerifyTurnstileToken(context.Background(), "tok", "", "")
	assert.ErrorContains(t, err, "secret key missing")
}
