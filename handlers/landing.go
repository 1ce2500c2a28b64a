package handlers

import (
	"fmt"
	"lead_funnel_go/middleware"
	"lead_funnel_go/services/slider"
	"lead_funnel_go/templates/pages"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func render(c echo.Context, component templ.Component) error {
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// LandingHandler handles GET /
func LandingHandler(c echo.Context) error {
	return renderLanding(c, "/", false)
}

// LeadPageHandler handles GET /lead: the landing page with the form already open
func LeadPageHandler(c echo.Context) error {
	return renderLanding(c, "/lead", true)
}

func renderLanding(c echo.Context, path string, flowOpen bool) error {
	cfg := getConfig(c)
	lang := middleware.GetLocale(c)

	hero, err := slider.New(heroSlides(cfg.HeroSlides, cfg.BrandName), 0)
	if err != nil {
		log.Printf("[landing] Failed to build hero slider: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	view := pages.LandingView{
		Lang:             lang,
		Brand:            cfg.BrandName,
		SEO:              pageSEO(cfg, lang, path),
		Hero:             hero,
		StatsPoll:        cfg.StatsCacheTTL,
		KakaoURL:         cfg.KakaoChatURL,
		TurnstileSiteKey: cfg.TurnstileSiteKey,
		FlowOpen:         flowOpen,
	}

	// The page still renders when the sheet is unreachable; the counter polls
	if cache := getStatsCache(c); cache != nil {
		ctx, cancel := statsContext(c)
		stats, err := cache.Stats(ctx)
		cancel()
		if err != nil {
			log.Printf("[landing] Stats unavailable: %v", err)
		} else {
			view.Stats = stats
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return render(c, pages.Landing(view))
}

func heroSlides(paths []string, brand string) []slider.Slide {
	slides := make([]slider.Slide, 0, len(paths))
	for i, src := range paths {
		slides = append(slides, slider.Slide{
			Src: src,
			Alt: fmt.Sprintf("%s %d", brand, i+1),
		})
	}
	return slides
}
