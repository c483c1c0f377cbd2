package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/form"
)

// StripeBackend hands the HTTP exchange to stripe-go. Network retries are
// disabled; the caller decides whether to retry.
type StripeBackend struct {
	backend stripe.Backend
	apiKey  string
}

type rawResult struct {
	stripe.APIResource
}

// stripeLogger adapts a logrus logger for stripe-go. stripe-go logs every
// non-2xx response at error level; those lines are written as warnings.
type stripeLogger struct {
	logrus.FieldLogger
}

func NewStripeLogger(logger logrus.FieldLogger) stripe.LeveledLoggerInterface {
	return stripeLogger{FieldLogger: logger}
}

func (l stripeLogger) Errorf(format string, v ...interface{}) {
	l.FieldLogger.Warnf(format, v...)
}

func NewStripeBackend(cfg BackendConfig, httpClient *http.Client, logger stripe.LeveledLoggerInterface) *StripeBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     logger,
	}
	if cfg.BaseURL != "" {
		backendConfig.URL = stripe.String(cfg.BaseURL)
	}

	return &StripeBackend{
		backend: stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		apiKey:  cfg.APIKey,
	}
}

func (b *StripeBackend) Call(ctx context.Context, req *Request) ([]byte, error) {
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = b.apiKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := &stripe.Params{Context: ctx}
	if req.ConnectAccount != "" {
		params.StripeAccount = stripe.String(req.ConnectAccount)
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}

	result := &rawResult{}
	if err := b.backend.CallRaw(req.Method, req.Path, apiKey, toStripeForm(req.Params), params, result); err != nil {
		return nil, fromStripeError(err)
	}
	if result.LastResponse == nil {
		return nil, errors.New("empty response from payment provider")
	}

	return result.LastResponse.RawJSON, nil
}

func toStripeForm(values url.Values) *form.Values {
	body := &form.Values{}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, value := range values[key] {
			body.Add(key, value)
		}
	}
	return body
}

func fromStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &APIError{
			StatusCode: stripeErr.HTTPStatusCode,
			Type:       string(stripeErr.Type),
			Code:       string(stripeErr.Code),
			Param:      stripeErr.Param,
			Message:    stripeErr.Msg,
			RequestID:  stripeErr.RequestID,
		}
	}
	return fmt.Errorf("request failed: %w", err)
}
