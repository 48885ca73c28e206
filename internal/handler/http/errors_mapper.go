package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/app"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/MKhiriev/scrapegate/internal/validators"
)

type errorResponse struct {
	status  int
	message string
}

// errorResponses is checked in order; the first matching sentinel wins.
var errorResponses = []struct {
	target error
	errorResponse
}{
	{validators.ErrInvalidRequest, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrInvalidDataProvided, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrTokenIsExpiredOrInvalid, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{service.ErrBanned, errorResponse{http.StatusForbidden, app.MsgUserBanned}},
	{service.ErrNotFound, errorResponse{http.StatusNotFound, app.MsgUserNotFound}},
	{service.ErrAlreadyExists, errorResponse{http.StatusConflict, app.MsgUserAlreadyExists}},
	{service.ErrLimitExceeded, errorResponse{http.StatusTooManyRequests, app.MsgLimitExceeded}},
	{service.ErrStoreUnavailable, errorResponse{http.StatusServiceUnavailable, app.MsgStoreUnavailable}},
	{service.ErrBackupDisabled, errorResponse{http.StatusNotImplemented, app.MsgBackupDisabled}},
}

func responseFromError(err error) errorResponse {
	for _, e := range errorResponses {
		if errors.Is(err, e.target) {
			return e.errorResponse
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

func statusFromError(err error) int {
	return responseFromError(err).status
}

// writeServiceError logs err and writes the matching JSON error response.
// Validation and limit errors carry their text as the detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	resp := responseFromError(err)

	log := logger.FromRequest(r)
	if resp.status >= http.StatusInternalServerError {
		log.Err(err).Int("status", resp.status).Msg(logMsg)
	} else {
		log.Warn().Err(err).Int("status", resp.status).Msg(logMsg)
	}

	var detail string
	var limitErr *service.LimitError
	switch {
	case errors.As(err, &limitErr):
		detail = limitErr.Error()
	case errors.Is(err, validators.ErrInvalidRequest):
		detail = err.Error()
	}

	utils.WriteError(w, resp.status, resp.message, detail)
}
