package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSEO(t *testing.T) {
	seo := DefaultSEO("타이틀", "설명")
	assert.Equal(t, "ko", seo.Locale)
	assert.Equal(t, []string{"en"}, seo.AltLocales)
	assert.Equal(t, "타이틀", seo.GetOGTitle())

	seo.OGTitle = "OG"
	assert.Equal(t, "OG", seo.GetOGTitle())
	assert.Equal(t, "설명", seo.GetOGDesc())
}

func TestOGLocale(t *testing.T) {
	assert.Equal(t, "ko_KR", DefaultSEO("", "").OGLocale())
	assert.Equal(t, "en_US", DefaultSEO("", "").WithLocale("en", "ko").OGLocale())
	assert.Equal(t, "ko_KR", DefaultSEO("", "").WithLocale("fr").OGLocale())
}

func TestLocaleURL(t *testing.T) {
	seo := DefaultSEO("", "").WithCanonical("https://example.com/lead?utm_source=ig")
	assert.Equal(t, "https://example.com/lead?lang=en&utm_source=ig", seo.LocaleURL("en"))

	assert.Equal(t, "/?lang=en", DefaultSEO("", "").LocaleURL("en"))
}
