//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext holds state between test steps.
type TestContext struct {
	BaseURL    string
	AdminToken string
	CronSecret string
	HTTPClient *http.Client

	LastResponse     *http.Response
	LastResponseBody []byte

	// TenantIDs maps tenant slugs created during the scenario to their IDs.
	TenantIDs map[string]string
}

// NewTestContext creates a test context against a running server.
func NewTestContext() *TestContext {
	baseURL := os.Getenv("SUDSY_E2E_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	adminToken := os.Getenv("SUDSY_ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "dev-admin-token-change-in-production"
	}
	cronSecret := os.Getenv("SUDSY_CRON_SECRET")
	if cronSecret == "" {
		cronSecret = "dev-cron-secret-change-in-production"
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AdminToken: adminToken,
		CronSecret: cronSecret,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		TenantIDs:  make(map[string]string),
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.LastResponse = nil
	tc.LastResponseBody = nil
	tc.TenantIDs = make(map[string]string)
}

// Do sends a request and captures the response.
func (tc *TestContext) Do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.LastResponse = resp
	tc.LastResponseBody = data
	return nil
}

// DoWithHost sends a GET with an overridden Host header, for resolve scenarios.
func (tc *TestContext) DoWithHost(path, host string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Host = host

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.LastResponse = resp
	tc.LastResponseBody = data
	return nil
}

// ResponseField extracts a top-level field from the last JSON response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var parsed map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse response JSON: %w", err)
	}
	value, ok := parsed[field]
	if !ok {
		return nil, fmt.Errorf("field %q not present in response: %s", field, tc.LastResponseBody)
	}
	return value, nil
}

func (tc *TestContext) adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": tc.AdminToken}
}
