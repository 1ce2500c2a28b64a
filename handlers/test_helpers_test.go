package handlers

import (
	"context"
	"io"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"lead_funnel_go/services"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type fakeStore struct {
	mu        sync.Mutex
	leads     []*models.Lead
	appendErr error
	stats     models.LeadStats
	statsErr  error
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) AppendLead(ctx context.Context, lead *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.leads = append(s.leads, lead)
	return nil
}

func (s *fakeStore) CountLeads(ctx context.Context) (int, error) {
	stats, err := s.Stats(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	return stats.TotalCount, nil
}

func (s *fakeStore) Stats(ctx context.Context, now time.Time) (*models.LeadStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	stats := s.stats
	return &stats, nil
}

func (s *fakeStore) saved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*services.Email
	err  error
}

func (m *fakeMailer) Name() string { return "fake" }

func (m *fakeMailer) Send(ctx context.Context, email *services.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:             "test",
		AppURL:                  "https://franchise.example.com",
		BrandName:               "바나타이거",
		NotificationEmail:       "ops@example.com",
		RequireMarketingConsent: true,
		HeroSlides:              []string{"/static/a.jpg", "/static/b.jpg", "/static/c.jpg"},
		OutboundTimeout:         time.Second,
		StatsCacheTTL:           10 * time.Second,
	}
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set(ConfigKey, testConfig())

	return e, c, rec
}

// withServices injects the lead service, stats cache and mailer the way
// cmd/server does. A nil mailer leaves the mailer key unset.
func withServices(c echo.Context, store *fakeStore, mailer *fakeMailer) {
	cfg := getConfig(c)
	notifier := services.NewStatsNotifier()

	var m services.Mailer
	if mailer != nil {
		m = mailer
		c.Set(MailerKey, m)
	}

	c.Set(LeadsKey, services.NewLeadService(cfg, store, m, notifier))
	c.Set(StatsKey, services.NewStatsCache(store, cfg.StatsCacheTTL, notifier))
}
