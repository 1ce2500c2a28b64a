package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"lead_funnel_go/models"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// AppsScript forwards leads to a Google Apps Script web app that owns the sheet
type AppsScript struct {
	scriptURL string
	sheetID   string
	tab       string
	client    *resty.Client
}

// NewAppsScript creates a proxy store. Apps Script answers POSTs with a 302 to
// googleusercontent.com, so redirects are followed.
func NewAppsScript(scriptURL, sheetID, tab string, timeout time.Duration) *AppsScript {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &AppsScript{
		scriptURL: scriptURL,
		sheetID:   sheetID,
		tab:       tab,
		client:    client,
	}
}

func (s *AppsScript) Name() string { return "apps-script" }

// scriptPayload is the body the web app's doPost expects
type scriptPayload struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Region            string `json:"region"`
	Memo              string `json:"memo"`
	Message           string `json:"message"`
	IsMarketingAgreed bool   `json:"isMarketingAgreed"`
	SubmittedAt       string `json:"submittedAt"`
	UserAgent         string `json:"userAgent"`
	Referer           string `json:"referer"`
	Source            string `json:"source,omitempty"`
	SheetName         string `json:"sheetName,omitempty"`
}

// scriptResult covers both {ok, message} and {ok, error} shapes plus stats fields
type scriptResult struct {
	OK              *bool  `json:"ok"`
	Message         string `json:"message"`
	Error           string `json:"error"`
	TotalCount      int    `json:"totalCount"`
	Last30DaysCount int    `json:"last30DaysCount"`
}

func (r *scriptResult) reason() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// AppendLead posts the lead and interprets the proxy's answer
func (s *AppsScript) AppendLead(ctx context.Context, lead *models.Lead) error {
	if s.scriptURL == "" {
		return fmt.Errorf("%w: GOOGLE_SCRIPT_URL is not set", ErrNotConfigured)
	}

	payload := scriptPayload{
		Name:              lead.Name,
		Phone:             lead.Phone,
		Region:            lead.Region,
		Memo:              lead.Memo,
		Message:           lead.Memo,
		IsMarketingAgreed: lead.IsMarketingAgreed,
		SubmittedAt:       lead.Timestamp(),
		UserAgent:         lead.UserAgent,
		Referer:           lead.Referer,
		Source:            lead.Source,
		SheetName:         s.tab,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(s.scriptURL)
	if err != nil {
		return fmt.Errorf("apps script request failed: %w", err)
	}

	result, err := decodeScriptResponse(resp)
	if err != nil {
		return err
	}

	// A 2xx JSON body without "ok" counts as success
	if result.OK != nil && !*result.OK {
		reason := result.reason()
		if reason == "" {
			reason = "unknown error"
		}
		return &RejectedError{Message: reason}
	}

	log.Printf("[sheets] Apps Script accepted lead (status %d)", resp.StatusCode())
	return nil
}

// fetchStats calls the web app's doGet with action=getStats
func (s *AppsScript) fetchStats(ctx context.Context) (*scriptResult, error) {
	if s.scriptURL == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SCRIPT_URL is not set", ErrNotConfigured)
	}

	params := map[string]string{"action": "getStats"}
	if s.sheetID != "" {
		params["sheetId"] = s.sheetID
	}
	if s.tab != "" {
		params["sheetName"] = s.tab
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(s.scriptURL)
	if err != nil {
		return nil, fmt.Errorf("apps script request failed: %w", err)
	}

	result, err := decodeScriptResponse(resp)
	if err != nil {
		return nil, err
	}
	if result.OK == nil || !*result.OK {
		return nil, &RejectedError{Message: result.reason()}
	}
	return result, nil
}

// CountLeads returns the script's total count
func (s *AppsScript) CountLeads(ctx context.Context) (int, error) {
	result, err := s.fetchStats(ctx)
	if err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}

// Stats returns the script's own totals; now is unused because the script owns the clock
func (s *AppsScript) Stats(ctx context.Context, now time.Time) (*models.LeadStats, error) {
	result, err := s.fetchStats(ctx)
	if err != nil {
		return nil, err
	}
	return &models.LeadStats{
		TotalCount:      result.TotalCount,
		Last30DaysCount: result.Last30DaysCount,
	}, nil
}

// decodeScriptResponse rejects non-2xx and non-JSON answers as downstream errors
func decodeScriptResponse(resp *resty.Response) (*scriptResult, error) {
	body := resp.Body()
	contentType := resp.Header().Get("Content-Type")

	if !resp.IsSuccess() {
		log.Printf("[sheets] Apps Script error: status=%d body=%s", resp.StatusCode(), truncate(string(body), 300))
		return nil, &DownstreamError{
			Status:      resp.StatusCode(),
			ContentType: contentType,
			Detail:      truncate(string(body), DetailLimit),
		}
	}

	if !strings.Contains(contentType, "application/json") {
		log.Printf("[sheets] Apps Script returned non-JSON content-type %q", contentType)
		return nil, &DownstreamError{
			Status:      resp.StatusCode(),
			ContentType: contentType,
			Detail:      truncate(string(body), DetailLimit),
		}
	}

	var result scriptResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &DownstreamError{
			Status:      resp.StatusCode(),
			ContentType: contentType,
			Detail:      truncate(string(body), DetailLimit),
		}
	}
	return &result, nil
}
