package sheets

import (
	"context"
	"errors"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountFilled(t *testing.T) {
	t.Run("Counts name column", func(t *testing.T) {
		rows := [][]string{
			{"2026-03-01T09:00:00+09:00", "김철수"},
			{"2026-03-02T09:00:00+09:00", ""},
			{"2026-03-03T09:00:00+09:00", "이영희"},
		}
		assert.Equal(t, 2, countFilled(rows))
	})

	t.Run("Falls back to timestamp column when names are blank", func(t *testing.T) {
		rows := [][]string{
			{"2026-03-01T09:00:00+09:00"},
			{"2026-03-02T09:00:00+09:00", "  "},
			{""},
		}
		assert.Equal(t, 2, countFilled(rows))
	})

	t.Run("Empty sheet", func(t *testing.T) {
		assert.Equal(t, 0, countFilled(nil))
	})
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, models.SeoulLocation)
	rows := [][]string{
		{"2026-03-30T10:00:00+09:00", "a"},
		{"2026-03-05 08:00:00", "b"},
		{"2026-01-01T10:00:00+09:00", "c"},
		{"not a date", "d"},
		{},
	}

	stats := summarize(rows, now)
	assert.Equal(t, 4, stats.TotalCount)
	assert.Equal(t, 2, stats.Last30DaysCount)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))

	// "가" is three bytes; cutting at 4 must not split the second rune
	assert.Equal(t, "가", truncate("가나다", 4))
}

func TestQuoteTab(t *testing.T) {
	tests := []struct {
		tab  string
		want string
	}{
		{"시트1", "시트1"},
		{"Leads 2026", "'Leads 2026'"},
		{"O'Brien", "'O''Brien'"},
	}
	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTab(tt.tab))
		})
	}
}

func TestNewStore(t *testing.T) {
	t.Run("No backend configured", func(t *testing.T) {
		_, err := NewStore(&config.Config{}, nil)
		assert.True(t, errors.Is(err, ErrNotConfigured))
	})

	t.Run("Script URL wins in auto mode", func(t *testing.T) {
		cfg := &config.Config{
			GoogleScriptURL: "https://script.google.com/macros/s/x/exec",
			GoogleSheetID:   "sheet",
			GoogleSheetTab:  config.DefaultSheetTab,
		}
		store, err := NewStore(cfg, nil)
		assert.NoError(t, err)
		assert.Equal(t, "apps-script", store.Name())
	})

	t.Run("Explicit sheets backend", func(t *testing.T) {
		cfg := &config.Config{
			SheetBackend:    config.BackendSheets,
			GoogleScriptURL: "https://script.google.com/macros/s/x/exec",
			GoogleSheetID:   "sheet",
		}
		store, err := NewStore(cfg, nil)
		assert.NoError(t, err)
		assert.Equal(t, "google-sheets", store.Name())
	})

	t.Run("Explicit backend missing its setting", func(t *testing.T) {
		cfg := &config.Config{SheetBackend: config.BackendWorkbook}
		_, err := NewStore(cfg, nil)
		assert.True(t, errors.Is(err, ErrNotConfigured))
	})
}

func TestUnavailable(t *testing.T) {
	store := Unavailable(ErrNotConfigured)
	assert.Equal(t, "unavailable", store.Name())
	assert.ErrorIs(t, store.AppendLead(context.Background(), &models.Lead{}), ErrNotConfigured)

	count, err := store.CountLeads(context.Background())
	assert.Equal(t, 0, count)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
