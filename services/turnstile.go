package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	turnstileClient    = resty.New()
)

// TurnstileResponse is Cloudflare's siteverify answer
type TurnstileResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// VerifyTurnstileToken checks a widget token with Cloudflare. ip may be empty.
func VerifyTurnstileToken(ctx context.Context, token, secretKey, ip string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, errors.New("turnstile token missing")
	}
	if secretKey == "" {
		return false, errors.New("turnstile secret key missing")
	}

	form := map[string]string{"secret": secretKey, "response": token}
	if ip != "" {
		form["remoteip"] = ip
	}

	var result TurnstileResponse
	resp, err := turnstileClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		Post(turnstileVerifyURL)
	if err != nil {
		return false, fmt.Errorf("turnstile request: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("turnstile returned HTTP %d", resp.StatusCode())
	}
	if !result.Success {
		return false, fmt.Errorf("turnstile rejected token: %s", strings.Join(result.ErrorCodes, ","))
	}
	return true, nil
}
