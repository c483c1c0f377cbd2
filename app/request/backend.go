package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.stripe.com"
	DefaultTimeout = 30 * time.Second
)

// Request is a single call against the payment provider API.
type Request struct {
	Method string
	Path   string
	Params url.Values
	Options
}

// Backend performs one HTTP exchange and returns the raw JSON body of a
// successful response. Provider error responses are returned as *APIError.
type Backend interface {
	Call(ctx context.Context, req *Request) ([]byte, error)
}

type BackendConfig struct {
	BaseURL    string
	APIKey     string
	APIVersion string
	Timeout    time.Duration
}

type HTTPBackend struct {
	cfg        BackendConfig
	httpClient *http.Client
}

func NewHTTPBackend(cfg BackendConfig, httpClient *http.Client) *HTTPBackend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPBackend{cfg: cfg, httpClient: httpClient}
}

func (b *HTTPBackend) Call(ctx context.Context, req *Request) ([]byte, error) {
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = b.cfg.APIKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	target := strings.TrimRight(b.cfg.BaseURL, "/") + req.Path
	encoded := req.Params.Encode()

	var body io.Reader
	if req.Method == http.MethodPost {
		body = strings.NewReader(encoded)
	} else if encoded != "" {
		target += "?" + encoded
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.cfg.APIVersion != "" {
		httpReq.Header.Set("Stripe-Version", b.cfg.APIVersion)
	}
	if req.ConnectAccount != "" {
		httpReq.Header.Set("Stripe-Account", req.ConnectAccount)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp.StatusCode, resp.Header.Get("Request-Id"), respBody)
	}

	return respBody, nil
}
