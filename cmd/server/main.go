package main

import (
	"context"
	"errors"
	"lead_funnel_go/config"
	"lead_funnel_go/handlers"
	"lead_funnel_go/middleware"
	"lead_funnel_go/services"
	"lead_funnel_go/services/i18n"
	"lead_funnel_go/services/jobs"
	"lead_funnel_go/services/sheets"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	middleware.InitAssetVersions("static")

	store := newStore(cfg)
	mailer := newMailer(cfg)
	e := newServer(cfg, store, mailer)

	// Daily digest reads fresh counts, so it gets its own uncached view of the store
	var stopJobs func()
	if cfg.EnableDailyDigest && mailer != nil {
		scheduler, err := jobs.StartScheduler(cfg, services.NewStatsCache(store, 0, nil), mailer)
		if err != nil {
			log.Printf("[WARNING] Daily digest disabled: %v", err)
		} else {
			stopJobs = func() { <-scheduler.Stop().Done() }
		}
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down")
	if stopJobs != nil {
		stopJobs()
	}
	timeout := 2 * cfg.OutboundTimeout
	if timeout < 5*time.Second {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("[WARNING] Graceful shutdown failed: %v", err)
	}
}

// newStore builds the sheet backend. Without one the server still starts:
// submissions fail with "not configured" and counts read as unavailable.
func newStore(cfg *config.Config) sheets.Store {
	store, err := sheets.NewStore(cfg, sheets.NewCredentialLoader(cfg))
	if err != nil {
		log.Printf("[WARNING] Sheet storage disabled: %v", err)
		return sheets.Unavailable(err)
	}
	log.Printf("[INFO] Sheet storage: %s", store.Name())
	return store
}

func newMailer(cfg *config.Config) services.Mailer {
	mailer, err := services.NewMailer(cfg)
	if err != nil {
		if cfg.EnableEmailNotifications {
			log.Printf("[WARNING] Email notifications enabled but no transport: %v", err)
		}
		return nil
	}
	log.Printf("[INFO] Email transport: %s", mailer.Name())
	return mailer
}

func newServer(cfg *config.Config, store sheets.Store, mailer services.Mailer) *echo.Echo {
	notifier := services.NewStatsNotifier()
	leads := services.NewLeadService(cfg, store, mailer, notifier)
	stats := services.NewStatsCache(store, cfg.StatsCacheTTL, notifier)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(middleware.Locale(cfg))

	// Make config and services available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(handlers.ConfigKey, cfg)
			c.Set(handlers.LeadsKey, leads)
			c.Set(handlers.StatsKey, stats)
			if mailer != nil {
				c.Set(handlers.MailerKey, mailer)
			}
			return next(c)
		}
	})

	// Static files
	e.Static("/static", "static")

	// Pages
	pages := e.Group("")
	pages.Use(middleware.CSPNonce())
	{
		pages.GET("/", handlers.LandingHandler)
		pages.GET("/lead", handlers.LeadPageHandler)
	}
	e.GET("/sitemap.xml", handlers.GetSitemapHandler)
	e.GET("/robots.txt", handlers.RobotsHandler)
	e.GET("/healthz", handlers.HealthHandler)

	// Lead API
	api := e.Group("/api")
	{
		api.POST("/lead", handlers.CreateLeadHandler)
		api.GET("/lead/count", handlers.LeadCountHandler)
		api.GET("/stats", handlers.StatsHandler)
	}

	// Development-only routes
	if cfg.Environment == "development" {
		devRoutes := e.Group("/dev")
		{
			devRoutes.GET("/email/test", handlers.TestEmailHandler)
		}
	}

	e.Server.ReadHeaderTimeout = 10 * time.Second

	return e
}
