// Package sheets persists leads as appended spreadsheet rows and reads back
// row counts. Three backends share one interface: the Google Sheets API, a
// Google Apps Script web app acting as a write proxy, and a local xlsx
// workbook for development.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"strings"
	"time"
)

// Store appends leads and reports row counts
type Store interface {
	Name() string
	AppendLead(ctx context.Context, lead *models.Lead) error
	CountLeads(ctx context.Context) (int, error)
	Stats(ctx context.Context, now time.Time) (*models.LeadStats, error)
}

var (
	// ErrNotConfigured means the backend is missing a required setting
	ErrNotConfigured = errors.New("sheet backend not configured")
	// ErrPermission maps Google 401/403 responses
	ErrPermission = errors.New("google sheets permission denied: share the spreadsheet with the service account as Editor")
	// ErrNotFound maps Google 404 responses
	ErrNotFound = errors.New("google sheets not found: check the sheet ID or tab name")
)

// DetailLimit bounds diagnostic bodies copied into errors and responses
const DetailLimit = 500

// APIError is a Sheets API failure that is neither auth nor not-found
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google sheets api error (status %d): %s", e.Status, e.Message)
}

// DownstreamError is a non-2xx or non-JSON response from the Apps Script proxy
type DownstreamError struct {
	Status      int
	ContentType string
	Detail      string
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("apps script returned status %d (content-type %q): %s", e.Status, e.ContentType, e.Detail)
}

// RejectedError is a well-formed {ok:false} answer from the Apps Script proxy
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "apps script rejected lead: " + e.Message
}

// NewStore builds the backend selected by cfg
func NewStore(cfg *config.Config, creds *CredentialLoader) (Store, error) {
	switch cfg.ResolveSheetBackend() {
	case config.BackendScript:
		if cfg.GoogleScriptURL == "" {
			return nil, fmt.Errorf("%w: GOOGLE_SCRIPT_URL is not set", ErrNotConfigured)
		}
		return NewAppsScript(cfg.GoogleScriptURL, cfg.GoogleSheetID, cfg.GoogleSheetTab, cfg.OutboundTimeout), nil
	case config.BackendSheets:
		if cfg.GoogleSheetID == "" {
			return nil, fmt.Errorf("%w: GOOGLE_SHEET_ID is not set", ErrNotConfigured)
		}
		return NewGoogleSheets(cfg.GoogleSheetID, cfg.GoogleSheetTab, creds), nil
	case config.BackendWorkbook:
		if cfg.WorkbookPath == "" {
			return nil, fmt.Errorf("%w: WORKBOOK_PATH is not set", ErrNotConfigured)
		}
		return NewWorkbook(cfg.WorkbookPath, cfg.GoogleSheetTab), nil
	default:
		return nil, fmt.Errorf("%w: set GOOGLE_SCRIPT_URL, GOOGLE_SHEET_ID or WORKBOOK_PATH", ErrNotConfigured)
	}
}

// countFilled counts rows with a non-empty name cell. If no row has a name,
// the timestamp column is counted instead (older sheets left B blank).
func countFilled(rows [][]string) int {
	count := countColumn(rows, models.ColName)
	if count == 0 {
		count = countColumn(rows, models.ColTimestamp)
	}
	return count
}

func countColumn(rows [][]string, col int) int {
	count := 0
	for _, row := range rows {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			count++
		}
	}
	return count
}

// summarize derives total and last-30-day counts from data rows
func summarize(rows [][]string, now time.Time) *models.LeadStats {
	cutoff := now.AddDate(0, 0, -30)
	stats := &models.LeadStats{TotalCount: countFilled(rows)}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		ts, ok := parseTimestamp(row[models.ColTimestamp])
		if ok && !ts.Before(cutoff) && !ts.After(now) {
			stats.Last30DaysCount++
		}
	}
	return stats
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, models.SeoulLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truncate shortens diagnostic text to at most maxLen bytes without splitting a rune
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// quoteTab quotes a tab name for A1 notation when it contains spaces or quotes
func quoteTab(tab string) string {
	if strings.ContainsAny(tab, " '!") {
		return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
	}
	return tab
}

// unavailable stands in for a backend that could not be built
type unavailable struct {
	err error
}

// Unavailable returns a Store whose every call fails with err. The server keeps
// running without a sheet so the count endpoints can still answer ok:false.
func Unavailable(err error) Store {
	return unavailable{err: err}
}

func (u unavailable) Name() string { return "unavailable" }

func (u unavailable) AppendLead(ctx context.Context, lead *models.Lead) error { return u.err }

func (u unavailable) CountLeads(ctx context.Context) (int, error) { return 0, u.err }

func (u unavailable) Stats(ctx context.Context, now time.Time) (*models.LeadStats, error) {
	return nil, u.err
}
