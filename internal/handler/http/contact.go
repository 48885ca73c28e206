package http

import (
	"net/http"

	"github.com/MKhiriev/scrapegate/models"
)

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.services.ContactService.Submit(r.Context(), models.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		IPAddress: clientIP(r, ""),
	})
	if err != nil {
		writeServiceError(w, r, err, "error storing contact message")
		return
	}

	w.WriteHeader(http.StatusCreated)
}
