package http

import (
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/MKhiriev/scrapegate/models"
)

func (h *Handler) ban(w http.ResponseWriter, r *http.Request) {
	var req models.BanRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	banned, err := h.services.AccessService.Ban(r.Context(), req.Email, req.Reason, req.AdminNotes)
	if err != nil {
		writeServiceError(w, r, err, "error banning user")
		return
	}

	logger.FromRequest(r).Warn().Str("email", banned.Email).Str("reason", banned.Reason).Msg("user banned by admin")
	utils.WriteJSON(w, banned, http.StatusOK)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.AccessService.GetUserStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "error collecting user stats")
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}

func (h *Handler) backup(w http.ResponseWriter, r *http.Request) {
	result, err := h.services.BackupService.Backup(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "activity backup failed")
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) listContact(w http.ResponseWriter, r *http.Request) {
	messages, err := h.services.ContactService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "error listing contact messages")
		return
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}

	utils.WriteJSON(w, messages, http.StatusOK)
}
