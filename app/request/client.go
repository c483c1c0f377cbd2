package request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-plans/app/factory"
	"github.com/vibast-solutions/ms-go-plans/app/schema"
)

const apiPrefix = "/v1/"

// Client builds provider calls for schema-described resources. Endpoints are
// relative to the API version prefix, e.g. "plans" or "plans/gold".
type Client struct {
	backend  Backend
	defaults Options
	logger   logrus.FieldLogger
}

func NewClient(backend Backend, defaults ...Option) *Client {
	return &Client{
		backend:  backend,
		defaults: applyOptions(Options{}, defaults),
		logger:   factory.NewModuleLogger("provider-request"),
	}
}

func (c *Client) Create(ctx context.Context, endpoint string, changes schema.Changes, s schema.Schema, out interface{}, opts ...Option) error {
	cast, dropped := s.Cast(changes, schema.Create, nil)
	c.logDropped(endpoint, schema.Create, dropped)
	return c.do(ctx, http.MethodPost, endpoint, EncodeForm(cast), out, opts)
}

func (c *Client) Retrieve(ctx context.Context, endpoint string, out interface{}, opts ...Option) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, opts)
}

func (c *Client) Update(ctx context.Context, endpoint string, changes schema.Changes, s schema.Schema, nullable []string, out interface{}, opts ...Option) error {
	cast, dropped := s.Cast(changes, schema.Update, nullable)
	c.logDropped(endpoint, schema.Update, dropped)
	return c.do(ctx, http.MethodPost, endpoint, EncodeForm(cast), out, opts)
}

func (c *Client) Delete(ctx context.Context, endpoint string, changes schema.Changes, out interface{}, opts ...Option) error {
	return c.do(ctx, http.MethodDelete, endpoint, EncodeForm(changes), out, opts)
}

func (c *Client) List(ctx context.Context, endpoint string, params schema.Changes, out interface{}, opts ...Option) error {
	return c.do(ctx, http.MethodGet, endpoint, EncodeForm(params), out, opts)
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, out interface{}, opts []Option) error {
	if params == nil {
		params = url.Values{}
	}

	req := &Request{
		Method:  method,
		Path:    apiPrefix + strings.TrimLeft(endpoint, "/"),
		Params:  params,
		Options: applyOptions(c.defaults, opts),
	}

	c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.Path,
	}).Debug("provider_request")

	body, err := c.backend.Call(ctx, req)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

func (c *Client) logDropped(endpoint string, op schema.Operation, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	c.logger.WithFields(logrus.Fields{
		"endpoint":  endpoint,
		"operation": string(op),
		"dropped":   dropped,
	}).Debug("Fields not permitted for operation were dropped")
}
