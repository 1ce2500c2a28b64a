package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"lead_funnel_go/services/sheets"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrMissingFields   = errors.New("name and phone are required")
	ErrConsentRequired = errors.New("marketing consent is required")
	ErrCaptchaFailed   = errors.New("captcha verification failed")
)

// RequestMeta carries request headers used when the body omits them
type RequestMeta struct {
	UserAgent string
	Referer   string
	RemoteIP  string
}

// SubmitResult reports what happened after the row was saved
type SubmitResult struct {
	Lead     *models.Lead
	MailSent bool
	MailErr  error
}

// LeadService validates a submission, appends it to the sheet and notifies
// the operator. The sheet write decides success; the email is best-effort.
type LeadService struct {
	cfg       *config.Config
	store     sheets.Store
	mailer    Mailer
	notifier  *StatsNotifier
	sanitizer *bluemonday.Policy
	verify    func(ctx context.Context, token, secret, ip string) (bool, error)
	now       func() time.Time
}

// NewLeadService wires the service. mailer may be nil when email is not configured.
func NewLeadService(cfg *config.Config, store sheets.Store, mailer Mailer, notifier *StatsNotifier) *LeadService {
	return &LeadService{
		cfg:       cfg,
		store:     store,
		mailer:    mailer,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
		verify:    VerifyTurnstileToken,
		now:       time.Now,
	}
}

// Store returns the sheet backend in use
func (s *LeadService) Store() sheets.Store {
	return s.store
}

// Submit runs the whole pipeline for one request. No external call is made
// until the body has passed validation.
func (s *LeadService) Submit(ctx context.Context, req *models.LeadRequest, meta RequestMeta) (*SubmitResult, error) {
	lead := req.ToLead(s.now())
	s.sanitize(lead)

	if lead.UserAgent == "" {
		lead.UserAgent = meta.UserAgent
	}
	if lead.Referer == "" {
		lead.Referer = meta.Referer
	}

	if !lead.HasRequiredFields() {
		return nil, ErrMissingFields
	}
	if s.cfg.RequireMarketingConsent && !lead.IsMarketingAgreed {
		return nil, ErrConsentRequired
	}

	if s.cfg.TurnstileSecretKey != "" {
		if ok, err := s.verify(ctx, req.TurnstileToken, s.cfg.TurnstileSecretKey, meta.RemoteIP); !ok {
			log.Printf("[lead] Turnstile rejected submission: %v", err)
			return nil, ErrCaptchaFailed
		}
	}

	log.Printf("[lead] Saving lead phone=%s via %s", PhoneFingerprint(lead.Phone), s.store.Name())

	storeCtx, cancel := s.outbound(ctx)
	err := s.store.AppendLead(storeCtx, lead)
	cancel()
	if err != nil {
		log.Printf("[lead] Sheet append failed via %s: %v", s.store.Name(), err)
		return nil, fmt.Errorf("save lead: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify()
	}

	result := &SubmitResult{Lead: lead}
	if !s.cfg.EnableEmailNotifications {
		return result, nil
	}

	mailCtx, cancel := s.outbound(ctx)
	defer cancel()
	result.MailSent, result.MailErr = SendLeadNotification(mailCtx, s.cfg, s.mailer, lead)
	if result.MailErr != nil {
		log.Printf("[lead] Lead saved but notification failed: %v", result.MailErr)
	}
	return result, nil
}

// outbound bounds a single external call by OUTBOUND_TIMEOUT
func (s *LeadService) outbound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OutboundTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.OutboundTimeout)
}

// sanitize strips markup from free-text fields. The strict policy escapes
// entities, which are decoded again because the sheet stores plain text.
func (s *LeadService) sanitize(lead *models.Lead) {
	clean := func(v string) string {
		return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
	}
	lead.Name = clean(lead.Name)
	lead.Phone = clean(lead.Phone)
	lead.Region = clean(lead.Region)
	lead.Memo = clean(lead.Memo)
	lead.Source = clean(lead.Source)
}

// PhoneFingerprint identifies a phone number in logs without exposing it
func PhoneFingerprint(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "-"
	}
	sum := blake2b.Sum256([]byte(digits))
	return hex.EncodeToString(sum[:6])
}
