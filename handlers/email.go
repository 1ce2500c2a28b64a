package handlers

import (
	"lead_funnel_go/models"
	"lead_funnel_go/services"
	"lead_funnel_go/services/i18n"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// TestEmailHandler sends a test email through the configured transport
// (development only). ?kind=lead sends a sample lead notification instead.
func TestEmailHandler(c echo.Context) error {
	cfg := getConfig(c)

	if cfg.Environment != "development" {
		return echo.NewHTTPError(http.StatusForbidden, "This endpoint is only available in development mode")
	}

	mailer := getMailer(c)
	if mailer == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": services.ErrMailerNotConfigured.Error(),
		})
	}

	recipient := c.QueryParam("to")
	if recipient == "" {
		recipient = cfg.NotificationEmail
	}
	if recipient == "" {
		return echo.NewHTTPError(http.StatusBadRequest, services.ErrNoRecipient.Error())
	}

	var (
		email *services.Email
		err   error
	)
	switch c.QueryParam("kind") {
	case "lead":
		email, err = services.BuildLeadNotificationEmail(cfg, sampleLead(c), i18n.DefaultLang)
		if email != nil {
			email.To = []string{recipient}
		}
	case "", "test":
		email, err = services.BuildTestEmail(cfg, mailer.Name(), recipient)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be test or lead")
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to build test email",
			"details": err.Error(),
		})
	}

	// Sent synchronously so transport errors reach the caller
	if err := mailer.Send(c.Request().Context(), email); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to send test email",
			"details": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":   "Test email sent successfully",
		"recipient": recipient,
		"transport": mailer.Name(),
	})
}

func sampleLead(c echo.Context) *models.Lead {
	return &models.Lead{
		Name:              "홍길동",
		Phone:             "010-1234-5678",
		Region:            "서울 강남구",
		Memo:              "테스트 문의입니다.",
		IsMarketingAgreed: true,
		SubmittedAt:       time.Now(),
		UserAgent:         c.Request().UserAgent(),
		Referer:           c.Request().Referer(),
		Source:            "dev",
	}
}
