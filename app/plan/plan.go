// Package plan binds the payment provider's Plan resource.
//
// The binding owns the field schema and the endpoint layout. Everything
// else (transport, authentication, error decoding) is left to the Requester.
package plan

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/vibast-solutions/ms-go-plans/app/entity"
	"github.com/vibast-solutions/ms-go-plans/app/request"
	"github.com/vibast-solutions/ms-go-plans/app/schema"
)

const Endpoint = "plans"

var ErrMissingID = errors.New("plan id is required")

var Schema = schema.Schema{
	"id":                   {schema.Create, schema.Retrieve},
	"object":               {schema.Retrieve},
	"amount":               {schema.Create, schema.Retrieve},
	"created":              {schema.Retrieve},
	"currency":             {schema.Create, schema.Retrieve},
	"interval":             {schema.Create, schema.Retrieve},
	"interval_count":       {schema.Create, schema.Retrieve},
	"livemode":             {schema.Retrieve},
	"metadata":             {schema.Create, schema.Retrieve, schema.Update},
	"name":                 {schema.Create, schema.Retrieve, schema.Update},
	"statement_descriptor": {schema.Create, schema.Retrieve, schema.Update},
	"trial_period_days":    {schema.Create, schema.Retrieve, schema.Update},
}

// NullableKeys may be cleared on update by sending a nil value.
var NullableKeys = []string{"metadata", "statement_descriptor"}

type Requester interface {
	Create(ctx context.Context, endpoint string, changes schema.Changes, s schema.Schema, out interface{}, opts ...request.Option) error
	Retrieve(ctx context.Context, endpoint string, out interface{}, opts ...request.Option) error
	Update(ctx context.Context, endpoint string, changes schema.Changes, s schema.Schema, nullable []string, out interface{}, opts ...request.Option) error
	Delete(ctx context.Context, endpoint string, changes schema.Changes, out interface{}, opts ...request.Option) error
	List(ctx context.Context, endpoint string, params schema.Changes, out interface{}, opts ...request.Option) error
}

type ListParams struct {
	Limit int64
}

type Client struct {
	requester Requester
}

func NewClient(requester Requester) *Client {
	return &Client{requester: requester}
}

func (c *Client) Create(ctx context.Context, changes schema.Changes, opts ...request.Option) (*entity.Plan, error) {
	item := &entity.Plan{}
	if err := c.requester.Create(ctx, Endpoint, changes, Schema, item, opts...); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) Retrieve(ctx context.Context, id string, opts ...request.Option) (*entity.Plan, error) {
	endpoint, err := itemEndpoint(id)
	if err != nil {
		return nil, err
	}

	item := &entity.Plan{}
	if err := c.requester.Retrieve(ctx, endpoint, item, opts...); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) Update(ctx context.Context, id string, changes schema.Changes, opts ...request.Option) (*entity.Plan, error) {
	endpoint, err := itemEndpoint(id)
	if err != nil {
		return nil, err
	}

	item := &entity.Plan{}
	if err := c.requester.Update(ctx, endpoint, changes, Schema, NullableKeys, item, opts...); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) Delete(ctx context.Context, id string, opts ...request.Option) (*entity.DeletedPlan, error) {
	endpoint, err := itemEndpoint(id)
	if err != nil {
		return nil, err
	}

	item := &entity.DeletedPlan{}
	if err := c.requester.Delete(ctx, endpoint, schema.Changes{}, item, opts...); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *Client) List(ctx context.Context, params ListParams, opts ...request.Option) (*entity.PlanList, error) {
	query := schema.Changes{}
	if params.Limit > 0 {
		query["limit"] = params.Limit
	}

	list := &entity.PlanList{}
	if err := c.requester.List(ctx, Endpoint, query, list, opts...); err != nil {
		return nil, err
	}
	if list.Data == nil {
		list.Data = make([]*entity.Plan, 0)
	}
	return list, nil
}

func itemEndpoint(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingID
	}
	return Endpoint + "/" + url.PathEscape(id), nil
}
