package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avelichka/skinform/internal/common"
	"github.com/avelichka/skinform/internal/plan"
)

const defaultTimeout = 30 * time.Second

// HTTPClient talks JSON to the recommendation server.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	// tokenFn supplies the current access token, or "" when anonymous.
	tokenFn func() string
}

func NewHTTPClient(baseURL string, tokenFn func() string) *HTTPClient {
	if tokenFn == nil {
		tokenFn = func() string { return "" }
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokenFn: tokenFn,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// doJSON performs one request with a JSON body (may be nil) and decodes a
// JSON response into out (may be nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokenFn(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
			return fmt.Errorf("server: %s", er.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) RequestOTP(ctx context.Context, phone string) error {
	in := map[string]string{"phone": phone}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/otp/request", in, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, phone, code string) (*VerifyResult, error) {
	in := map[string]string{"phone": phone, "code": code}
	var out VerifyResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/otp/verify", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, newPassword string) error {
	in := map[string]string{"new_password": newPassword}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/auth/password/reset", in, nil)
}

func (c *HTTPClient) SubmitAssessment(ctx context.Context, req *SubmissionRequest) (*SubmissionResponse, error) {
	var out SubmissionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/assessments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetPlan(ctx context.Context, recommendationID string) (*plan.DailyProtocol, error) {
	var out plan.DailyProtocol
	path := "/api/v1/assessments/" + recommendationID + "/plan"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PresignPhoto(ctx context.Context) (*PresignResult, error) {
	var out PresignResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/photos/presign", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/healthz", nil, nil)
}
