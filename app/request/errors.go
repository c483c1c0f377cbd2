package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrMissingAPIKey = errors.New("missing api key")

// APIError is an error response returned by the payment provider.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Param      string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("payment provider API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("payment provider API error (status %d): %s", e.StatusCode, e.Message)
}

func decodeAPIError(statusCode int, requestID string, body []byte) *APIError {
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Param   string `json:"param"`
			Message string `json:"message"`
		} `json:"error"`
	}

	apiErr := &APIError{StatusCode: statusCode, RequestID: requestID}
	if err := json.Unmarshal(body, &envelope); err != nil || (envelope.Error.Type == "" && envelope.Error.Message == "") {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(statusCode)
		}
		return apiErr
	}

	apiErr.Type = envelope.Error.Type
	apiErr.Code = envelope.Error.Code
	apiErr.Param = envelope.Error.Param
	apiErr.Message = envelope.Error.Message
	return apiErr
}
