package services

import (
	"context"
	"errors"
	"fmt"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"lead_funnel_go/services/i18n"
	"log"
	"net/url"
	"time"
)

// ErrNoRecipient means NOTIFICATION_EMAIL is not set
var ErrNoRecipient = errors.New("no notification recipient configured (set NOTIFICATION_EMAIL)")

var koreanWeekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// FormatKST formats t as "2006-01-02 (월) 15:04" in Korea time
func FormatKST(t time.Time) string {
	kst := t.In(models.SeoulLocation)
	return fmt.Sprintf("%s (%s) %s", kst.Format("2006-01-02"), koreanWeekdays[kst.Weekday()], kst.Format("15:04"))
}

// LeadNotificationEmailData contains data for the lead notification template
type LeadNotificationEmailData struct {
	Brand           string
	Name            string
	Phone           string
	Region          string
	Memo            string
	MarketingAgreed bool
	Source          string
	SubmittedAt     string
	UserAgent       string
	Referer         string
	KakaoURL        string
	SheetViewURL    string
	SheetCSVURL     string
}

// SheetLinks returns the edit and CSV export URLs of a spreadsheet
func SheetLinks(sheetID string) (view, csv string) {
	if sheetID == "" {
		return "", ""
	}
	base := "https://docs.google.com/spreadsheets/d/" + url.PathEscape(sheetID)
	return base + "/edit", base + "/export?format=csv"
}

// BuildLeadNotificationEmail creates the operator notification for a new lead
func BuildLeadNotificationEmail(cfg *config.Config, lead *models.Lead, lang string) (*Email, error) {
	view, csv := SheetLinks(cfg.GoogleSheetID)
	data := LeadNotificationEmailData{
		Brand:           cfg.BrandName,
		Name:            lead.Name,
		Phone:           lead.Phone,
		Region:          lead.Region,
		Memo:            lead.Memo,
		MarketingAgreed: lead.IsMarketingAgreed,
		Source:          lead.Source,
		SubmittedAt:     FormatKST(lead.SubmittedAt),
		UserAgent:       lead.UserAgent,
		Referer:         lead.Referer,
		KakaoURL:        cfg.KakaoChatURL,
		SheetViewURL:    view,
		SheetCSVURL:     csv,
	}

	html, text, err := renderTemplate("lead_notification", lang, data)
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       []string{cfg.NotificationEmail},
		Subject:  i18n.Translate(lang, "email.subject.lead", map[string]interface{}{"brand": cfg.BrandName, "name": lead.Name}),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

// SendLeadNotification emails the operator about a saved lead. The boolean
// reports whether the email went out; callers treat failure as non-fatal.
func SendLeadNotification(ctx context.Context, cfg *config.Config, mailer Mailer, lead *models.Lead) (bool, error) {
	if mailer == nil {
		return false, ErrMailerNotConfigured
	}
	if cfg.NotificationEmail == "" {
		return false, ErrNoRecipient
	}

	email, err := BuildLeadNotificationEmail(cfg, lead, i18n.DefaultLang)
	if err != nil {
		return false, fmt.Errorf("failed to build notification: %w", err)
	}

	start := time.Now()
	if err := mailer.Send(ctx, email); err != nil {
		log.Printf("[mailer] Notification via %s failed after %s: %v", mailer.Name(), time.Since(start).Round(time.Millisecond), err)
		return false, err
	}
	log.Printf("[mailer] Notification via %s sent in %s", mailer.Name(), time.Since(start).Round(time.Millisecond))
	return true, nil
}

// TestEmailData contains data for the transport test email
type TestEmailData struct {
	Brand     string
	Transport string
	From      string
	SentAt    string
}

// BuildTestEmail creates the email sent by the transport check
func BuildTestEmail(cfg *config.Config, transport, recipient string) (*Email, error) {
	data := TestEmailData{
		Brand:     cfg.BrandName,
		Transport: transport,
		From:      cfg.NotificationSender(),
		SentAt:    FormatKST(time.Now()),
	}

	html, text, err := renderTemplate("test", i18n.DefaultLang, data)
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       []string{recipient},
		Subject:  i18n.Translate(i18n.DefaultLang, "email.subject.test", map[string]interface{}{"brand": cfg.BrandName}),
		HTMLBody: html,
		TextBody: text,
	}, nil
}

// DigestEmailData contains data for the daily digest template
type DigestEmailData struct {
	Brand           string
	Date            string
	TotalCount      int
	Last30DaysCount int
	SheetViewURL    string
}

// BuildDailyDigestEmail creates the operator's daily lead summary
func BuildDailyDigestEmail(cfg *config.Config, stats *models.LeadStats, now time.Time) (*Email, error) {
	if cfg.NotificationEmail == "" {
		return nil, ErrNoRecipient
	}

	view, _ := SheetLinks(cfg.GoogleSheetID)
	date := now.In(models.SeoulLocation).Format("2006-01-02")
	data := DigestEmailData{
		Brand:           cfg.BrandName,
		Date:            date,
		TotalCount:      stats.TotalCount,
		Last30DaysCount: stats.Last30DaysCount,
		SheetViewURL:    view,
	}

	html, text, err := renderTemplate("daily_digest", i18n.DefaultLang, data)
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       []string{cfg.NotificationEmail},
		Subject:  i18n.Translate(i18n.DefaultLang, "email.subject.digest", map[string]interface{}{"brand": cfg.BrandName, "date": date}),
		HTMLBody: html,
		TextBody: text,
	}, nil
}
