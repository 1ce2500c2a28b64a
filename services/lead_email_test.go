package services

import (
	"context"
	"errors"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []*Email
	err  error
}

func (m *recordingMailer) Name() string { return "recording" }

func (m *recordingMailer) Send(ctx context.Context, email *Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func sampleLead() *models.Lead {
	return &models.Lead{
		Name:              "김철수",
		Phone:             "010-1234-5678",
		Region:            "부산",
		Memo:              "매장 오픈 비용이 궁금합니다",
		IsMarketingAgreed: true,
		SubmittedAt:       time.Date(2026, 3, 4, 1, 30, 0, 0, time.UTC),
	}
}

func TestFormatKST(t *testing.T) {
	// 2026-03-04 01:30 UTC is Wednesday 10:30 in Seoul
	assert.Equal(t, "2026-03-04 (수) 10:30", FormatKST(time.Date(2026, 3, 4, 1, 30, 0, 0, time.UTC)))
}

func TestSheetLinks(t *testing.T) {
	view, csv := SheetLinks("abc123")
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/edit", view)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/export?format=csv", csv)

	view, csv = SheetLinks("")
	assert.Empty(t, view)
	assert.Empty(t, csv)
}

func TestBuildLeadNotificationEmail(t *testing.T) {
	cfg := &config.Config{
		BrandName:         "바나타이거",
		NotificationEmail: "ops@example.com",
		GoogleSheetID:     "abc123",
		KakaoChatURL:      "http://pf.kakao.com/_x/chat",
	}

	email, err := BuildLeadNotificationEmail(cfg, sampleLead(), "ko")
	require.NoError(t, err)

	assert.Equal(t, []string{"ops@example.com"}, email.To)
	assert.Equal(t, "[바나타이거] 새로운 창업 상담 신청: 김철수", email.Subject)
	assert.Contains(t, email.TextBody, "접수 일시: 2026-03-04 (수) 10:30")
	assert.Contains(t, email.TextBody, "▶ 지역: 부산")
	assert.Contains(t, email.TextBody, "http://pf.kakao.com/_x/chat")
	assert.Contains(t, email.TextBody, "보기: https://docs.google.com/spreadsheets/d/abc123/edit")
	assert.Contains(t, email.TextBody, "export?format=csv")
	assert.Contains(t, email.HTMLBody, "매장 오픈 비용이 궁금합니다")

	t.Run("Blank optional fields show a dash", func(t *testing.T) {
		lead := sampleLead()
		lead.Region = ""
		lead.Memo = ""
		email, err := BuildLeadNotificationEmail(&config.Config{BrandName: "B"}, lead, "ko")
		require.NoError(t, err)
		assert.Contains(t, email.TextBody, "▶ 지역: -")
		assert.NotContains(t, email.TextBody, "구글시트")
	})
}

func TestSendLeadNotification(t *testing.T) {
	cfg := &config.Config{BrandName: "B", NotificationEmail: "ops@example.com"}

	t.Run("Sent", func(t *testing.T) {
		m := &recordingMailer{}
		sent, err := SendLeadNotification(context.Background(), cfg, m, sampleLead())
		assert.NoError(t, err)
		assert.True(t, sent)
		assert.Len(t, m.sent, 1)
	})

	t.Run("Transport failure", func(t *testing.T) {
		m := &recordingMailer{err: errors.New("smtp down")}
		sent, err := SendLeadNotification(context.Background(), cfg, m, sampleLead())
		assert.Error(t, err)
		assert.False(t, sent)
	})

	t.Run("No mailer", func(t *testing.T) {
		sent, err := SendLeadNotification(context.Background(), cfg, nil, sampleLead())
		assert.ErrorIs(t, err, ErrMailerNotConfigured)
		assert.False(t, sent)
	})

	t.Run("No recipient", func(t *testing.T) {
		sent, err := SendLeadNotification(context.Background(), &config.Config{}, &recordingMailer{}, sampleLead())
		assert.ErrorIs(t, err, ErrNoRecipient)
		assert.False(t, sent)
	})
}

func TestBuildTestEmail(t *testing.T) {
	cfg := &config.Config{BrandName: "바나타이거", EmailFrom: "from@example.com"}
	email, err := BuildTestEmail(cfg, "smtp", "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "[바나타이거] 이메일 설정 테스트", email.Subject)
	assert.Contains(t, email.TextBody, "전송 방식: smtp")
	assert.Contains(t, email.TextBody, "from@example.com")
}

func TestBuildDailyDigestEmail(t *testing.T) {
	stats := &models.LeadStats{TotalCount: 1234, Last30DaysCount: 56}
	// 23:30 UTC is already the next day in Seoul
	now := time.Date(2026, 3, 30, 23, 30, 0, 0, time.UTC)

	t.Run("Summary", func(t *testing.T) {
		cfg := &config.Config{BrandName: "바나타이거", NotificationEmail: "ops@example.com", GoogleSheetID: "abc"}
		email, err := BuildDailyDigestEmail(cfg, stats, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"ops@example.com"}, email.To)
		assert.Equal(t, "[바나타이거] 상담 신청 현황 (2026-03-31)", email.Subject)
		assert.Contains(t, email.TextBody, "누적 신청: 1234건")
		assert.Contains(t, email.TextBody, "최근 30일: 56건")
		assert.Contains(t, email.TextBody, "https://docs.google.com/spreadsheets/d/abc/edit")
	})

	t.Run("No sheet link without sheet ID", func(t *testing.T) {
		cfg := &config.Config{BrandName: "바나타이거", NotificationEmail: "ops@example.com"}
		email, err := BuildDailyDigestEmail(cfg, stats, now)
		require.NoError(t, err)
		assert.NotContains(t, email.TextBody, "docs.google.com")
	})

	t.Run("No recipient", func(t *testing.T) {
		_, err := BuildDailyDigestEmail(&config.Config{}, stats, now)
		assert.True(t, errors.Is(err, ErrNoRecipient))
	})
}
