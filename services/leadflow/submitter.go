package leadflow

import (
	"context"
	"errors"
	"fmt"
	"lead_funnel_go/models"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrInvalidResponse means the server answered with something other than JSON
var ErrInvalidResponse = errors.New("server returned a non-JSON response")

// Submitter sends one lead to the API
type Submitter interface {
	Submit(ctx context.Context, req *models.LeadRequest) (*models.LeadResponse, error)
}

// HTTPSubmitter posts to <baseURL>/api/lead
type HTTPSubmitter struct {
	client *resty.Client
}

func NewHTTPSubmitter(baseURL string, timeout time.Duration) *HTTPSubmitter {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPSubmitter{client: client}
}

// Submit returns the decoded response for any JSON answer, including 4xx/5xx,
// so the flow can show the server's message.
func (s *HTTPSubmitter) Submit(ctx context.Context, req *models.LeadRequest) (*models.LeadResponse, error) {
	var out models.LeadResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/lead")
	if err != nil {
		return nil, fmt.Errorf("post lead: %w", err)
	}

	if !strings.Contains(resp.Header().Get("Content-Type"), "application/json") {
		return nil, fmt.Errorf("%w (status %d)", ErrInvalidResponse, resp.StatusCode())
	}
	if err := s.client.JSONUnmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &out, nil
}

// Count reads GET /api/lead/count. The endpoint always answers 200, so ok:false
// is reported as an error here.
func (s *HTTPSubmitter) Count(ctx context.Context) (int, error) {
	var out models.CountResponse
	resp, err := s.client.R().SetContext(ctx).SetResult(&out).Get("/api/lead/count")
	if err != nil {
		return 0, fmt.Errorf("get count: %w", err)
	}
	if !resp.IsSuccess() || !out.OK {
		return 0, fmt.Errorf("count unavailable (status %d)", resp.StatusCode())
	}
	return out.Count, nil
}

// Stats reads GET /api/stats
func (s *HTTPSubmitter) Stats(ctx context.Context) (*models.LeadStats, error) {
	var out models.StatsResponse
	resp, err := s.client.R().SetContext(ctx).SetResult(&out).Get("/api/stats")
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	if !resp.IsSuccess() || !out.OK {
		return nil, fmt.Errorf("stats unavailable (status %d)", resp.StatusCode())
	}
	return &models.LeadStats{TotalCount: out.TotalCount, Last30DaysCount: out.Last30DaysCount}, nil
}
