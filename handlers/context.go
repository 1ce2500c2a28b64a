package handlers

import (
	"lead_funnel_go/config"
	"lead_funnel_go/services"

	"github.com/labstack/echo/v4"
)

// Keys under which cmd/server injects shared services into the echo context
const (
	ConfigKey = "config"
	LeadsKey  = "leads"
	StatsKey  = "stats"
	MailerKey = "mailer"
)

func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get(ConfigKey).(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

func getLeadService(c echo.Context) *services.LeadService {
	svc, _ := c.Get(LeadsKey).(*services.LeadService)
	return svc
}

func getStatsCache(c echo.Context) *services.StatsCache {
	cache, _ := c.Get(StatsKey).(*services.StatsCache)
	return cache
}

func getMailer(c echo.Context) services.Mailer {
	mailer, _ := c.Get(MailerKey).(services.Mailer)
	return mailer
}
