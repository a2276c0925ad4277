package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the challenge endpoints.
type Client interface {
	Generate(ctx context.Context, in GenerateRequest) (*GenerateResult, error)
	Verify(ctx context.Context, in VerifyRequest) (bool, error)
}

type GenerateRequest struct {
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
	Name        string `json:"name,omitempty"`
}

type GenerateResult struct {
	Token     string
	ExpiresAt time.Time
}

type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Token string `json:"token"`
}

// HTTPClient implements Client against a server exposing the
// /verify-email/generator and /verify-email/verifier endpoints.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}

	return &HTTPClient{baseURL: baseURL, hc: hc}
}

func (c *HTTPClient) Generate(ctx context.Context, in GenerateRequest) (*GenerateResult, error) {
	var out struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		ExpiresAt int64  `json:"expiresAt"`
		Error     string `json:"error"`
	}

	if err := c.post(ctx, "/verify-email/generator", in, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, errors.New(out.Error)
	}

	return &GenerateResult{
		Token:     out.Token,
		ExpiresAt: time.UnixMilli(out.ExpiresAt),
	}, nil
}

func (c *HTTPClient) Verify(ctx context.Context, in VerifyRequest) (bool, error) {
	var out struct {
		Success bool   `json:"success"`
		Valid   bool   `json:"valid"`
		Error   string `json:"error"`
	}

	if err := c.post(ctx, "/verify-email/verifier", in, &out); err != nil {
		return false, err
	}
	if !out.Success {
		return false, errors.New(out.Error)
	}

	return out.Valid, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	return nil
}
