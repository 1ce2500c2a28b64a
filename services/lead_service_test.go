package services

import (
	"context"
	"errors"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"lead_funnel_go/services/sheets"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory sheets.Store
type memoryStore struct {
	mu        sync.Mutex
	leads     []*models.Lead
	appendErr error
	statsErr  error
	reads     int
	counts    int
}

func (m *memoryStore) Name() string { return "memory" }

func (m *memoryStore) AppendLead(ctx context.Context, lead *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.leads = append(m.leads, lead)
	return nil
}

func (m *memoryStore) CountLeads(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts++
	if m.statsErr != nil {
		return 0, m.statsErr
	}
	return len(m.leads), nil
}

func (m *memoryStore) Stats(ctx context.Context, now time.Time) (*models.LeadStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return &models.LeadStats{TotalCount: len(m.leads), Last30DaysCount: len(m.leads)}, nil
}

func leadRequest(agreed bool) *models.LeadRequest {
	return &models.LeadRequest{
		Name:              " 김철수 ",
		Phone:             "010-1234-5678",
		Region:            "서울",
		Message:           "상담 원합니다",
		IsMarketingAgreed: models.BoolPtr(agreed),
	}
}

func newTestService(cfg *config.Config, store sheets.Store, mailer Mailer) *LeadService {
	svc := NewLeadService(cfg, store, mailer, NewStatsNotifier())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestLeadServiceSubmit(t *testing.T) {
	baseCfg := config.Config{
		RequireMarketingConsent:  true,
		EnableEmailNotifications: true,
		NotificationEmail:        "ops@example.com",
		BrandName:                "B",
	}

	t.Run("Saves and notifies", func(t *testing.T) {
		store := &memoryStore{}
		mailer := &recordingMailer{}
		cfg := baseCfg
		svc := newTestService(&cfg, store, mailer)

		result, err := svc.Submit(context.Background(), leadRequest(true), RequestMeta{UserAgent: "ua", Referer: "https://ref"})
		require.NoError(t, err)
		assert.True(t, result.MailSent)
		require.Len(t, store.leads, 1)

		lead := store.leads[0]
		assert.Equal(t, "김철수", lead.Name)
		assert.Equal(t, "상담 원합니다", lead.Memo)
		assert.Equal(t, "ua", lead.UserAgent)
		assert.Equal(t, "https://ref", lead.Referer)
		assert.Len(t, mailer.sent, 1)
		assert.Equal(t, uint64(1), svc.notifier.Version())
	})

	t.Run("Missing phone never reaches the store", func(t *testing.T) {
		store := &memoryStore{}
		cfg := baseCfg
		svc := newTestService(&cfg, store, &recordingMailer{})

		req := leadRequest(true)
		req.Phone = "   "
		_, err := svc.Submit(context.Background(), req, RequestMeta{})
		assert.ErrorIs(t, err, ErrMissingFields)
		assert.Empty(t, store.leads)
	})

	t.Run("Markup-only name counts as missing", func(t *testing.T) {
		store := &memoryStore{}
		cfg := baseCfg
		svc := newTestService(&cfg, store, &recordingMailer{})

		req := leadRequest(true)
		req.Name = "<script>alert(1)</script>"
		_, err := svc.Submit(context.Background(), req, RequestMeta{})
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("Consent required", func(t *testing.T) {
		store := &memoryStore{}
		cfg := baseCfg
		svc := newTestService(&cfg, store, &recordingMailer{})

		_, err := svc.Submit(context.Background(), leadRequest(false), RequestMeta{})
		assert.ErrorIs(t, err, ErrConsentRequired)

		req := leadRequest(true)
		req.IsMarketingAgreed = nil
		_, err = svc.Submit(context.Background(), req, RequestMeta{})
		assert.ErrorIs(t, err, ErrConsentRequired)
		assert.Empty(t, store.leads)
	})

	t.Run("Consent optional when disabled", func(t *testing.T) {
		store := &memoryStore{}
		cfg := baseCfg
		cfg.RequireMarketingConsent = false
		svc := newTestService(&cfg, store, &recordingMailer{})

		_, err := svc.Submit(context.Background(), leadRequest(false), RequestMeta{})
		assert.NoError(t, err)
		assert.Len(t, store.leads, 1)
	})

	t.Run("Sheet failure skips email", func(t *testing.T) {
		store := &memoryStore{appendErr: sheets.ErrPermission}
		mailer := &recordingMailer{}
		cfg := baseCfg
		svc := newTestService(&cfg, store, mailer)

		_, err := svc.Submit(context.Background(), leadRequest(true), RequestMeta{})
		assert.ErrorIs(t, err, sheets.ErrPermission)
		assert.Empty(t, mailer.sent)
		assert.Equal(t, uint64(0), svc.notifier.Version())
	})

	t.Run("Email failure keeps the lead", func(t *testing.T) {
		store := &memoryStore{}
		cfg := baseCfg
		svc := newTestService(&cfg, store, &recordingMailer{err: errors.New("resend 500")})

		result, err := svc.Submit(context.Background(), leadRequest(true), RequestMeta{})
		require.NoError(t, err)
		assert.False(t, result.MailSent)
		assert.Error(t, result.MailErr)
		assert.Len(t, store.leads, 1)
	})

	t.Run("Notifications disabled", func(t *testing.T) {
		mailer := &recordingMailer{}
		cfg := baseCfg
		cfg.EnableEmailNotifications = false
		svc := newTestService(&cfg, &memoryStore{}, mailer)

		result, err := svc.Submit(context.Background(), leadRequest(true), RequestMeta{})
		require.NoError(t, err)
		assert.False(t, result.MailSent)
		assert.NoError(t, result.MailErr)
		assert.Empty(t, mailer.sent)
	})

	t.Run("Captcha checked when configured", func(t *testing.T) {
		store := &memoryStore{}
		cfg := baseCfg
		cfg.TurnstileSecretKey = "secret"
		svc := newTestService(&cfg, store, &recordingMailer{})
		svc.verify = func(ctx context.Context, token, secret, ip string) (bool, error) {
			return token == "good", nil
		}

		_, err := svc.Submit(context.Background(), leadRequest(true), RequestMeta{})
		assert.ErrorIs(t, err, ErrCaptchaFailed)

		req := leadRequest(true)
		req.TurnstileToken = "good"
		_, err = svc.Submit(context.Background(), req, RequestMeta{})
		assert.NoError(t, err)
		assert.Len(t, store.leads, 1)
	})
}

func TestSanitizeKeepsPlainText(t *testing.T) {
	svc := newTestService(&config.Config{}, &memoryStore{}, nil)
	lead := &models.Lead{Name: "A&B <b>매장</b>", Memo: "=SUM(A1)"}
	svc.sanitize(lead)
	assert.Equal(t, "A&B 매장", lead.Name)
	assert.Equal(t, "=SUM(A1)", lead.Memo)
}

func TestPhoneFingerprint(t *testing.T) {
	a := PhoneFingerprint("010-1234-5678")
	assert.Len(t, a, 12)
	assert.Equal(t, a, PhoneFingerprint("01012345678"))
	assert.NotEqual(t, a, PhoneFingerprint("010-1234-5679"))
	assert.Equal(t, "-", PhoneFingerprint(""))
}
