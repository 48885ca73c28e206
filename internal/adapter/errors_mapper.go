package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/go-resty/resty/v2"
)

var statusErrors = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusTooManyRequests:     ErrTooManyRequests,
	http.StatusInternalServerError: ErrInternalServerError,
	http.StatusNotImplemented:      ErrNotImplemented,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	message := errorMessage(resp.Body())
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}

	if sentinel, ok := statusErrors[resp.StatusCode()]; ok {
		return fmt.Errorf("%w: %s", sentinel, message)
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), message)
}

// errorMessage extracts "error: detail" from a JSON error body and falls back
// to the raw text.
func errorMessage(body []byte) string {
	var payload utils.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		if payload.Detail != "" {
			return payload.Error + ": " + payload.Detail
		}
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
