package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"lead_funnel_go/models"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// newSheetsServer fakes the two Sheets v4 endpoints the store uses
func newSheetsServer(t *testing.T, handler http.HandlerFunc) *GoogleSheets {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewGoogleSheets("sheet-123", "시트1", nil,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func testLead() *models.Lead {
	return &models.Lead{
		Name:        "김철수",
		Phone:       "010-1234-5678",
		Region:      "서울",
		Memo:        "=HYPERLINK(\"x\")",
		SubmittedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		UserAgent:   "test-agent",
	}
}

func TestGoogleSheetsAppendLead(t *testing.T) {
	t.Run("Appends a raw row", func(t *testing.T) {
		var gotQuery string
		var gotBody map[string]interface{}
		store := newSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, ":append"))
			assert.Contains(t, r.URL.Path, "sheet-123")
			gotQuery = r.URL.RawQuery
			data, _ := io.ReadAll(r.Body)
			json.Unmarshal(data, &gotBody)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"updates": map[string]interface{}{"updatedRows": 1},
			})
		})

		err := store.AppendLead(context.Background(), testLead())
		require.NoError(t, err)
		assert.Contains(t, gotQuery, "valueInputOption=RAW")
		assert.Contains(t, gotQuery, "insertDataOption=INSERT_ROWS")

		values := gotBody["values"].([]interface{})
		row := values[0].([]interface{})
		assert.Len(t, row, models.ColumnCount)
		assert.Equal(t, "2026-03-01T09:00:00+09:00", row[models.ColTimestamp])
		assert.Equal(t, "김철수", row[models.ColName])
		assert.Equal(t, "=HYPERLINK(\"x\")", row[models.ColMemo])
	})

	t.Run("Zero updated rows is a failure", func(t *testing.T) {
		store := newSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"updates": map[string]interface{}{}})
		})

		err := store.AppendLead(context.Background(), testLead())
		var apiErr *APIError
		assert.True(t, errors.As(err, &apiErr))
	})

	t.Run("Forbidden maps to permission error", func(t *testing.T) {
		store := newSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"error": map[string]interface{}{"code": 403, "message": "The caller does not have permission"},
			})
		})

		err := store.AppendLead(context.Background(), testLead())
		assert.True(t, errors.Is(err, ErrPermission))
	})

	t.Run("Not found maps to not found error", func(t *testing.T) {
		store := newSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"error": map[string]interface{}{"code": 404, "message": "Requested entity was not found."},
			})
		})

		err := store.AppendLead(context.Background(), testLead())
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Other API errors keep the status", func(t *testing.T) {
		store := newSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": "Unable to parse range"},
			})
		})

		err := store.AppendLead(context.Background(), testLead())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("Missing sheet ID", func(t *testing.T) {
		store := NewGoogleSheets("", "시트1", nil)
		err := store.AppendLead(context.Background(), testLead())
		assert.True(t, errors.Is(err, ErrNotConfigured))
	})
}

func TestGoogleSheetsCountAndStats(t *testing.T) {
	store := newSheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "A2:B"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"values": [][]string{
				{"2026-03-30T10:00:00+09:00", "a"},
				{"2026-03-29T10:00:00+09:00", "b"},
				{"2025-12-01T10:00:00+09:00", "c"},
			},
		})
	})

	count, err := store.CountLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	now := time.Date(2026, 3, 31, 0, 0, 0, 0, models.SeoulLocation)
	stats, err := store.Stats(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 2, stats.Last30DaysCount)
}

func TestGoogleSheetsWithoutCredentials(t *testing.T) {
	store := NewGoogleSheets("sheet-123", "시트1", nil)
	_, err := store.CountLeads(context.Background())
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
