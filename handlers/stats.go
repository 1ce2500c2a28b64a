package handlers

import (
	"context"
	"lead_funnel_go/models"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// LeadCountHandler handles GET /api/lead/count. It always answers 200; a
// failed read is reported as ok=false with a zero count.
func LeadCountHandler(c echo.Context) error {
	noStore(c)

	cache := getStatsCache(c)
	if cache == nil {
		return c.JSON(http.StatusOK, models.CountResponse{OK: false})
	}

	ctx, cancel := statsContext(c)
	defer cancel()

	count, err := cache.Count(ctx)
	if err != nil {
		log.Printf("[stats] Count failed: %v", err)
		return c.JSON(http.StatusOK, models.CountResponse{OK: false})
	}
	return c.JSON(http.StatusOK, models.CountResponse{OK: true, Count: count})
}

// StatsHandler handles GET /api/stats with the same always-200 contract
func StatsHandler(c echo.Context) error {
	noStore(c)

	cache := getStatsCache(c)
	if cache == nil {
		return c.JSON(http.StatusOK, models.StatsResponse{OK: false})
	}

	ctx, cancel := statsContext(c)
	defer cancel()

	stats, err := cache.Stats(ctx)
	if err != nil {
		log.Printf("[stats] Stats failed: %v", err)
		return c.JSON(http.StatusOK, models.StatsResponse{OK: false})
	}
	return c.JSON(http.StatusOK, models.StatsResponse{
		OK:              true,
		TotalCount:      stats.TotalCount,
		Last30DaysCount: stats.Last30DaysCount,
	})
}

func noStore(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "no-store")
}

func statsContext(c echo.Context) (context.Context, context.CancelFunc) {
	cfg := getConfig(c)
	if cfg.OutboundTimeout <= 0 {
		return context.WithCancel(c.Request().Context())
	}
	return context.WithTimeout(c.Request().Context(), cfg.OutboundTimeout)
}
