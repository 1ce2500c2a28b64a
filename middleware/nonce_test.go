package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSecurityPolicy(t *testing.T) {
	csp := ContentSecurityPolicy("abc123")

	directives := map[string]string{}
	for _, part := range strings.Split(csp, "; ") {
		name, value, _ := strings.Cut(part, " ")
		directives[name] = value
	}

	assert.Equal(t, "'self'", directives["default-src"])
	assert.Contains(t, directives["script-src"], "'nonce-abc123'")
	assert.Contains(t, directives["script-src"], "https://challenges.cloudflare.com")
	assert.NotContains(t, directives["script-src"], "unsafe-eval")
	assert.NotContains(t, directives["script-src"], "unsafe-inline")
	assert.Equal(t, "https://challenges.cloudflare.com", directives["frame-src"])
	assert.Equal(t, "'self'", directives["form-action"])
}

func TestCSPNonce(t *testing.T) {
	e := echo.New()
	var seen []string
	handler := CSPNonce()(func(c echo.Context) error {
		nonce := GetNonce(c.Request().Context())
		assert.Equal(t, nonce, c.Get(string(NonceKey)))
		seen = append(seen, nonce)
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, handler(c))
		assert.Equal(t, ContentSecurityPolicy(seen[i]), rec.Header().Get("Content-Security-Policy"))
	}

	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.NotEqual(t, seen[0], seen[1], "nonce must change per request")
}

func TestGetNonce(t *testing.T) {
	assert.Equal(t, "n", GetNonce(context.WithValue(context.Background(), NonceKey, "n")))
	assert.Empty(t, GetNonce(context.Background()))
}
