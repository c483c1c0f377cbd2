package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vibast-solutions/ms-go-plans/app/plan"
	"github.com/vibast-solutions/ms-go-plans/app/request"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrPlanAlreadyExists    = errors.New("plan already exists")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrProviderUnauthorized = errors.New("payment provider rejected credentials")
	ErrProviderUnavailable  = errors.New("payment provider unavailable")
	ErrNoFieldsToUpdate     = fmt.Errorf("%w: no fields to update", ErrInvalidRequest)
)

const codeResourceAlreadyExists = "resource_already_exists"

// mapProviderError classifies an error returned by the plan binding. The
// original error stays in the chain.
func mapProviderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, plan.ErrMissingID) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var apiErr *request.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	switch {
	case apiErr.Code == codeResourceAlreadyExists:
		return fmt.Errorf("%w: %w", ErrPlanAlreadyExists, err)
	case apiErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrPlanNotFound, err)
	case apiErr.StatusCode == http.StatusBadRequest, apiErr.StatusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrProviderUnauthorized, err)
	default:
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
}

// ProviderMessage returns the provider's own message for err, if any.
func ProviderMessage(err error) string {
	var apiErr *request.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
