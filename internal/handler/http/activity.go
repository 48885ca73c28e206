package http

import (
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/app"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/MKhiriev/scrapegate/models"
)

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		logger.FromRequest(r).Error().Msg(app.MsgNoSessionProvided)
		utils.WriteError(w, http.StatusUnauthorized, app.MsgNoSessionProvided, "")
		return
	}

	var req models.ActivityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := h.services.AccessService.LogActivity(ctx, models.ActivityRecord{
		Email:     session.Email,
		IPAddress: clientIP(r, req.IP),
		Platform:  req.Platform,
		Topic:     req.Topic,
		Result:    req.Result,
		Reason:    req.Reason,
		DeviceID:  session.DeviceID,
	})
	if err != nil {
		writeServiceError(w, r, err, "error logging activity")
		return
	}

	status := http.StatusOK
	switch outcome.Outcome {
	case models.OutcomeAutoBanned:
		status = http.StatusForbidden
	case models.OutcomeDenied:
		status = statusFromReason(outcome.Reason)
	}
	utils.WriteJSON(w, outcome, status)
}

func (h *Handler) checkLimits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		logger.FromRequest(r).Error().Msg(app.MsgNoSessionProvided)
		utils.WriteError(w, http.StatusUnauthorized, app.MsgNoSessionProvided, "")
		return
	}

	status, err := h.services.AccessService.CheckLimits(ctx, session.Email)
	if err != nil {
		writeServiceError(w, r, err, "error checking limits")
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}
