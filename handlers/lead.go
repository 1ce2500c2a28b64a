package handlers

import (
	"errors"
	"lead_funnel_go/middleware"
	"lead_funnel_go/models"
	"lead_funnel_go/services"
	"lead_funnel_go/services/i18n"
	"lead_funnel_go/services/sheets"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateLeadHandler handles POST /api/lead. The sheet write decides the
// outcome; a failed notification email still returns 200 with mailSent=false.
func CreateLeadHandler(c echo.Context) error {
	cfg := getConfig(c)
	lang := middleware.GetLocale(c)

	svc := getLeadService(c)
	if svc == nil {
		log.Printf("[lead] Lead service missing from context")
		return c.JSON(http.StatusInternalServerError, models.LeadResponse{
			OK:      false,
			Message: i18n.Translate(lang, "lead.server_error"),
		})
	}

	var req models.LeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.LeadResponse{
			OK:      false,
			Message: i18n.Translate(lang, "lead.invalid_body"),
		})
	}

	meta := services.RequestMeta{
		UserAgent: c.Request().UserAgent(),
		Referer:   c.Request().Referer(),
		RemoteIP:  c.RealIP(),
	}

	result, err := svc.Submit(c.Request().Context(), &req, meta)
	if err != nil {
		status, resp := leadErrorResponse(err, lang)
		return c.JSON(status, resp)
	}

	resp := models.LeadResponse{
		OK:         true,
		Message:    i18n.Translate(lang, "lead.saved"),
		SheetSaved: models.BoolPtr(true),
	}
	if cfg.EnableEmailNotifications {
		resp.MailSent = models.BoolPtr(result.MailSent)
	}
	return c.JSON(http.StatusOK, resp)
}

// leadErrorResponse maps a submission error onto a status and a user-facing
// message. Diagnostic detail is only exposed for Apps Script failures.
func leadErrorResponse(err error, lang string) (int, models.LeadResponse) {
	fail := func(key string) models.LeadResponse {
		return models.LeadResponse{OK: false, Message: i18n.Translate(lang, key)}
	}
	stored := func(key string) models.LeadResponse {
		resp := fail(key)
		resp.SheetSaved = models.BoolPtr(false)
		return resp
	}

	var (
		downstream *sheets.DownstreamError
		rejected   *sheets.RejectedError
		apiErr     *sheets.APIError
	)

	switch {
	case errors.Is(err, services.ErrMissingFields):
		return http.StatusBadRequest, fail("lead.missing_fields")
	case errors.Is(err, services.ErrConsentRequired):
		return http.StatusBadRequest, fail("lead.consent_required")
	case errors.Is(err, services.ErrCaptchaFailed):
		return http.StatusBadRequest, fail("lead.captcha_failed")
	case errors.Is(err, sheets.ErrNotConfigured):
		return http.StatusInternalServerError, stored("lead.not_configured")
	case errors.As(err, &downstream):
		resp := stored("lead.script_failed")
		resp.Error = downstream.Detail
		return http.StatusBadGateway, resp
	case errors.As(err, &rejected):
		resp := stored("lead.script_failed")
		if rejected.Message != "" {
			resp.Message = rejected.Message
		}
		return http.StatusBadRequest, resp
	case errors.Is(err, sheets.ErrPermission):
		return http.StatusInternalServerError, stored("lead.permission_denied")
	case errors.Is(err, sheets.ErrNotFound):
		return http.StatusInternalServerError, stored("lead.sheet_not_found")
	case errors.As(err, &apiErr):
		return http.StatusInternalServerError, stored("lead.sheet_failed")
	default:
		log.Printf("[lead] Unexpected error: %v", err)
		return http.StatusInternalServerError, stored("lead.server_error")
	}
}
