package handlers

import (
	"errors"
	"lead_funnel_go/models"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandingHandler(t *testing.T) {
	t.Run("Renders slider and counter", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		withServices(c, &fakeStore{stats: models.LeadStats{TotalCount: 1234, Last30DaysCount: 56}}, nil)

		require.NoError(t, LandingHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
		assert.Contains(t, body, `lang="ko"`)
		assert.Contains(t, body, "1,234명")
		assert.Contains(t, body, "56명")
		// three slides plus the two edge clones
		assert.Equal(t, 5, strings.Count(body, `class="hero__slide"`))
		assert.Contains(t, body, `data-threshold-ratio="0.14"`)
		assert.Contains(t, body, `data-transition-ms="380"`)
		assert.Contains(t, body, `data-state="idle"`)
		assert.Contains(t, body, `rel="canonical" href="https://franchise.example.com/"`)
		assert.NotContains(t, body, "noindex")
		assert.NotContains(t, body, "cf-turnstile")
	})

	t.Run("Sheet failure still renders", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		withServices(c, &fakeStore{statsErr: errors.New("offline")}, nil)

		require.NoError(t, LandingHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-pending="true"`)
	})

	t.Run("Turnstile and Kakao", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		cfg := getConfig(c)
		cfg.TurnstileSiteKey = "site-key"
		cfg.KakaoChatURL = "https://pf.kakao.com/_abc/chat"

		require.NoError(t, LandingHandler(c))
		body := rec.Body.String()
		assert.Contains(t, body, `data-sitekey="site-key"`)
		assert.Contains(t, body, "challenges.cloudflare.com/turnstile")
		assert.Contains(t, body, `href="https://pf.kakao.com/_abc/chat"`)
	})
}

func TestLeadPageHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/lead", nil)
	c.Set("locale", "en")

	require.NoError(t, LeadPageHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `data-state="step1"`)
	assert.Contains(t, body, "noindex")
	assert.Contains(t, body, `name="personalDataCollection"`)
	assert.Contains(t, body, `name="personalDataThirdParty"`)
	assert.Contains(t, body, `name="personalDataCompany"`)
}

func TestHeroSlides(t *testing.T) {
	slides := heroSlides([]string{"/a.jpg", "/b.jpg"}, "바나타이거")
	require.Len(t, slides, 2)
	assert.Equal(t, "/b.jpg", slides[1].Src)
	assert.Equal(t, "바나타이거 2", slides[1].Alt)
}
