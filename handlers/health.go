package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /healthz. It reports the configured backends
// without calling them.
func HealthHandler(c echo.Context) error {
	backend := "none"
	if svc := getLeadService(c); svc != nil {
		backend = svc.Store().Name()
	}
	mailer := "none"
	if m := getMailer(c); m != nil {
		mailer = m.Name()
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"sheet":  backend,
		"mailer": mailer,
	})
}
