package handlers

import (
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"lead_funnel_go/services/i18n"
	"strings"
)

const defaultOGImage = "/static/images/og-image.png"

// pageSEO builds the SEO metadata for a landing route. lead is the same page
// with the application dialog open and is kept out of search results.
func pageSEO(cfg *config.Config, lang, path string) *models.SEO {
	baseURL := strings.TrimRight(cfg.AppURL, "/")
	args := map[string]interface{}{"brand": cfg.BrandName}

	alt := make([]string, 0, 1)
	for _, l := range i18n.Languages() {
		if l != lang {
			alt = append(alt, l)
		}
	}

	seo := models.DefaultSEO(
		i18n.Translate(lang, "site.title", args),
		i18n.Translate(lang, "site.description", args),
	).
		WithCanonical(baseURL+path).
		WithOGImage(baseURL+defaultOGImage).
		WithLocale(lang, alt...)

	if path != "/" {
		seo.WithNoIndex()
	}
	return seo
}
