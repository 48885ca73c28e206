package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/utils"
)

type versionResponse struct {
	Version      string              `json:"version"`
	Capabilities config.Capabilities `json:"capabilities"`
}

// getServerVersion answers in plain text unless the caller asks for JSON,
// in which case the enabled capabilities are included.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serverVersion := h.services.AppInfoService.GetAppVersion(ctx)

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		utils.WriteJSON(w, versionResponse{
			Version:      serverVersion,
			Capabilities: h.services.AppInfoService.GetCapabilities(ctx),
		}, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}
