package models

import (
	"strings"
	"time"
)

// SeoulLocation is used for row timestamps and notification emails.
// Falls back to a fixed +09:00 zone when tzdata is unavailable.
var SeoulLocation = loadSeoul()

func loadSeoul() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// Sheet column order. Fixed per deployment; appended rows never reorder.
const (
	ColTimestamp = iota
	ColName
	ColPhone
	ColRegion
	ColMemo
	ColUserAgent
	ColReferer

	ColumnCount
)

// SheetColumns are the header labels written to a new workbook
var SheetColumns = []string{"접수일시", "이름", "연락처", "지역", "메모", "UserAgent", "Referer"}

// Lead is a prospective customer's submitted contact record
type Lead struct {
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Region            string    `json:"region,omitempty"`
	Memo              string    `json:"memo,omitempty"`
	IsMarketingAgreed bool      `json:"isMarketingAgreed"`
	SubmittedAt       time.Time `json:"submittedAt"`
	UserAgent         string    `json:"userAgent,omitempty"`
	Referer           string    `json:"referer,omitempty"`
	Source            string    `json:"source,omitempty"`
}

// LeadRequest is the JSON body accepted by POST /api/lead. Field names vary
// between form versions, so both memo and message are accepted.
type LeadRequest struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Region            string `json:"region"`
	Memo              string `json:"memo"`
	Message           string `json:"message"`
	IsMarketingAgreed *bool  `json:"isMarketingAgreed"`
	SubmittedAt       string `json:"submittedAt"`
	UserAgent         string `json:"userAgent"`
	Referer           string `json:"referer"`
	Source            string `json:"source"`
	TurnstileToken    string `json:"cf-turnstile-response"`
}

// ToLead trims the request fields and builds a Lead. now is used when
// submittedAt is missing or unparsable.
func (r *LeadRequest) ToLead(now time.Time) *Lead {
	memo := strings.TrimSpace(r.Memo)
	if memo == "" {
		memo = strings.TrimSpace(r.Message)
	}

	submittedAt := now
	if r.SubmittedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.SubmittedAt); err == nil {
			submittedAt = t
		}
	}

	return &Lead{
		Name:              strings.TrimSpace(r.Name),
		Phone:             strings.TrimSpace(r.Phone),
		Region:            strings.TrimSpace(r.Region),
		Memo:              memo,
		IsMarketingAgreed: r.IsMarketingAgreed != nil && *r.IsMarketingAgreed,
		SubmittedAt:       submittedAt,
		UserAgent:         strings.TrimSpace(r.UserAgent),
		Referer:           strings.TrimSpace(r.Referer),
		Source:            strings.TrimSpace(r.Source),
	}
}

// HasRequiredFields reports whether name and phone are present
func (l *Lead) HasRequiredFields() bool {
	return l.Name != "" && l.Phone != ""
}

// Timestamp formats SubmittedAt for the sheet (RFC3339 in Korea time)
func (l *Lead) Timestamp() string {
	return l.SubmittedAt.In(SeoulLocation).Format(time.RFC3339)
}

// Row maps the lead onto the fixed sheet column order
func (l *Lead) Row() []string {
	row := make([]string, ColumnCount)
	row[ColTimestamp] = l.Timestamp()
	row[ColName] = l.Name
	row[ColPhone] = l.Phone
	row[ColRegion] = l.Region
	row[ColMemo] = l.Memo
	row[ColUserAgent] = l.UserAgent
	row[ColReferer] = l.Referer
	return row
}

// LeadResponse is the JSON envelope returned by the lead endpoints
type LeadResponse struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message,omitempty"`
	SheetSaved *bool  `json:"sheetSaved,omitempty"`
	MailSent   *bool  `json:"mailSent,omitempty"`
	Error      string `json:"error,omitempty"`
}

// LeadStats is the read-only summary shown on the landing page
type LeadStats struct {
	TotalCount      int `json:"totalCount"`
	Last30DaysCount int `json:"last30DaysCount"`
}

// CountResponse is returned by GET /api/lead/count
type CountResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

// StatsResponse is returned by GET /api/stats
type StatsResponse struct {
	OK              bool `json:"ok"`
	TotalCount      int  `json:"totalCount"`
	Last30DaysCount int  `json:"last30DaysCount"`
}

// BoolPtr returns a pointer to b, for the optional response flags
func BoolPtr(b bool) *bool {
	return &b
}
