package http

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/app"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/utils"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 64 << 10

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
// On failure it writes a 400 response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	log := logger.FromRequest(r)

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidJSON, "")
		return false
	}

	if err := h.validator.Validate(r.Context(), dst); err != nil {
		writeServiceError(w, r, err, "request validation failed")
		return false
	}

	return true
}

// clientIP prefers the IP reported in the body and falls back to the
// connection address (already rewritten by middleware.RealIP).
func clientIP(r *http.Request, reported string) string {
	if reported != "" {
		return reported
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
