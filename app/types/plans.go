package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-plans/app/plan"
	"github.com/vibast-solutions/ms-go-plans/app/schema"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type CreatePlanRequest struct {
	ID                  string            `json:"id,omitempty" validate:"omitempty,max=255"`
	Amount              *int64            `json:"amount" validate:"required,gte=0"`
	Currency            string            `json:"currency" validate:"required,len=3,alpha,lowercase"`
	Interval            string            `json:"interval" validate:"required,oneof=day week month year"`
	IntervalCount       *int64            `json:"interval_count,omitempty" validate:"omitempty,gte=1"`
	Name                string            `json:"name" validate:"required,max=250"`
	Metadata            map[string]string `json:"metadata,omitempty" validate:"omitempty,max=50"`
	StatementDescriptor *string           `json:"statement_descriptor,omitempty" validate:"omitempty,max=22"`
	TrialPeriodDays     *int64            `json:"trial_period_days,omitempty" validate:"omitempty,gte=0,lte=730"`
}

func NewCreatePlanRequestFromContext(ctx echo.Context) (*CreatePlanRequest, error) {
	var body CreatePlanRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.normalize()
	return &body, nil
}

func NewCreatePlanRequestFromChanges(changes schema.Changes) (*CreatePlanRequest, error) {
	raw, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}

	var body CreatePlanRequest
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}
	body.normalize()
	return &body, nil
}

func (r *CreatePlanRequest) normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Currency = strings.ToLower(strings.TrimSpace(r.Currency))
	r.Interval = strings.ToLower(strings.TrimSpace(r.Interval))
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreatePlanRequest) Validate() error {
	return validationError(validate.Struct(r))
}

// Changes returns only the fields the caller set.
func (r *CreatePlanRequest) Changes() schema.Changes {
	changes := schema.Changes{
		"currency": r.Currency,
		"interval": r.Interval,
		"name":     r.Name,
	}
	if r.ID != "" {
		changes["id"] = r.ID
	}
	if r.Amount != nil {
		changes["amount"] = *r.Amount
	}
	if r.IntervalCount != nil {
		changes["interval_count"] = *r.IntervalCount
	}
	if len(r.Metadata) > 0 {
		changes["metadata"] = r.Metadata
	}
	if r.StatementDescriptor != nil {
		changes["statement_descriptor"] = *r.StatementDescriptor
	}
	if r.TrialPeriodDays != nil {
		changes["trial_period_days"] = *r.TrialPeriodDays
	}
	return changes
}

type GetPlanRequest struct {
	ID string
}

func NewGetPlanRequestFromContext(ctx echo.Context) (*GetPlanRequest, error) {
	return &GetPlanRequest{ID: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetPlanRequest) GetID() string {
	return r.ID
}

func (r *GetPlanRequest) Validate() error {
	if r.ID == "" {
		return errors.New("plan id is required")
	}
	return nil
}

// UpdatePlanRequest keeps the raw body so that an explicit null can be told
// apart from an absent key.
type UpdatePlanRequest struct {
	ID     string
	Fields schema.Changes
}

func NewUpdatePlanRequestFromContext(ctx echo.Context) (*UpdatePlanRequest, error) {
	fields := make(schema.Changes)
	decoder := json.NewDecoder(ctx.Request().Body)
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}

	return &UpdatePlanRequest{
		ID:     strings.TrimSpace(ctx.Param("id")),
		Fields: fields,
	}, nil
}

func (r *UpdatePlanRequest) GetID() string {
	return r.ID
}

func (r *UpdatePlanRequest) Changes() schema.Changes {
	return r.Fields
}

func (r *UpdatePlanRequest) Validate() error {
	if r.ID == "" {
		return errors.New("plan id is required")
	}
	if len(r.Fields) == 0 {
		return errors.New("at least one field is required")
	}
	if err := plan.Schema.Check(r.Fields, schema.Update); err != nil {
		return err
	}

	for key, value := range r.Fields {
		if value == nil {
			continue
		}
		switch key {
		case "name", "statement_descriptor":
			if _, ok := value.(string); !ok {
				return fmt.Errorf("%s must be a string", key)
			}
		case "trial_period_days":
			if !isWholeNumber(value) {
				return fmt.Errorf("%s must be an integer", key)
			}
		case "metadata":
			if _, ok := value.(map[string]interface{}); !ok {
				return fmt.Errorf("%s must be an object", key)
			}
		}
	}
	return nil
}

type DeletePlanRequest struct {
	ID string
}

func NewDeletePlanRequestFromContext(ctx echo.Context) (*DeletePlanRequest, error) {
	return &DeletePlanRequest{ID: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *DeletePlanRequest) GetID() string {
	return r.ID
}

func (r *DeletePlanRequest) Validate() error {
	if r.ID == "" {
		return errors.New("plan id is required")
	}
	return nil
}

type ListPlansRequest struct {
	Limit int64
}

func NewListPlansRequestFromContext(ctx echo.Context) (*ListPlansRequest, error) {
	req := &ListPlansRequest{Limit: DefaultListLimit}
	if raw := strings.TrimSpace(ctx.QueryParam("limit")); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.Limit = limit
	}
	return req, nil
}

func (r *ListPlansRequest) GetLimit() int64 {
	return r.Limit
}

func (r *ListPlansRequest) Validate() error {
	if r.Limit < 1 || r.Limit > MaxListLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxListLimit)
	}
	return nil
}

func isWholeNumber(value interface{}) bool {
	switch v := value.(type) {
	case json.Number:
		_, err := v.Int64()
		return err == nil
	case int, int32, int64:
		return true
	case float64:
		return v == float64(int64(v))
	default:
		return false
	}
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	first := fieldErrors[0]
	field := first.Field()
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, first.Param())
	default:
		return fmt.Errorf("%s is invalid (%s)", field, first.Tag())
	}
}
