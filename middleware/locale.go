package middleware

import (
	"lead_funnel_go/config"
	"lead_funnel_go/services/i18n"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const langCookieName = "lang"

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. Default (Korean)
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.QueryParam("lang")
			if lang != "" {
				if !i18n.Supported(lang) {
					lang = i18n.DefaultLang
				}
				setLanguageCookie(c, cfg, lang)
			} else if cookie, err := c.Cookie(langCookieName); err == nil && i18n.Supported(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}

			c.Set("locale", lang)

			// Request context is what templ components read
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// fromAcceptLanguage returns the first supported primary tag in header order
func fromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if i18n.Supported(primary) {
			return primary
		}
	}
	return i18n.DefaultLang
}

// SetLanguageCookie sets the language cookie
func SetLanguageCookie(c echo.Context, lang string) {
	cfg, _ := c.Get("config").(*config.Config)
	setLanguageCookie(c, cfg, lang)
}

func setLanguageCookie(c echo.Context, cfg *config.Config, lang string) {
	cookie := new(http.Cookie)
	cookie.Name = langCookieName
	cookie.Value = lang
	cookie.Expires = time.Now().Add(24 * 365 * time.Hour) // 1 year
	cookie.Path = "/"
	cookie.HttpOnly = true
	cookie.SameSite = http.SameSiteLaxMode
	if cfg != nil && cfg.Environment == "production" {
		cookie.Secure = true
	}
	c.SetCookie(cookie)
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get("locale").(string); ok {
		return lang
	}
	return i18n.DefaultLang
}
