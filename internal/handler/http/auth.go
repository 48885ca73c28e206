package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/app"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/MKhiriev/scrapegate/models"
)

// deniedStatus maps a denial reason of the access flow to its HTTP status.
var deniedStatus = map[string]int{
	models.ReasonBanned:             http.StatusForbidden,
	models.ReasonNotFound:           http.StatusNotFound,
	models.ReasonDeviceLimit:        http.StatusTooManyRequests,
	models.ReasonDailyLimitExceeded: http.StatusTooManyRequests,
	models.ReasonStoreUnavailable:   http.StatusServiceUnavailable,
}

func statusFromReason(reason string) int {
	if status, ok := deniedStatus[reason]; ok {
		return status
	}
	return http.StatusForbidden
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.services.AccessService.Register(ctx, req.Email, clientIP(r, req.IP), req.DeviceID, models.TierName(req.Tier))
	if err != nil {
		writeServiceError(w, r, err, "user registration failed")
		return
	}

	logger.FromRequest(r).Info().Str("email", user.Email).Str("tier", string(user.Tier)).Msg("user registered")
	utils.WriteJSON(w, user, http.StatusCreated)
}

// authenticate runs the access flow. An admitted result with a session gets
// a bearer token in the "Authorization" response header; a fail-open result
// has no session and therefore no token.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.AuthenticateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.services.AccessService.Authenticate(ctx, req.Email, clientIP(r, req.IP), req.DeviceID)
	if err != nil {
		writeServiceError(w, r, err, "authentication failed")
		return
	}

	if !result.OK {
		log.Info().Str("email", req.Email).Str("reason", result.Reason).Msg("authentication denied")
		utils.WriteJSON(w, result, statusFromReason(result.Reason))
		return
	}

	if result.SessionID != "" {
		token, err := h.services.TokenService.CreateToken(ctx, models.NormalizeEmail(req.Email), result.SessionID, req.DeviceID)
		if err != nil {
			log.Err(err).Msg("creation of token failed")
			utils.WriteError(w, http.StatusInternalServerError, app.MsgInternalServerError, "")
			return
		}
		w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.String()))
	}

	utils.WriteJSON(w, result, http.StatusOK)
}
