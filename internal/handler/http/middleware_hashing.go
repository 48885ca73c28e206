package http

import (
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/app"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/utils"
)

const adminKeyHeader = "X-Admin-Key"

// checkAdminKey lets a request through only when its X-Admin-Key header
// matches the configured bcrypt hash. Rejected keys are logged by
// fingerprint, never in clear.
func (h *Handler) checkAdminKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		key := r.Header.Get(adminKeyHeader)
		if !utils.VerifyAdminKey(h.adminKeyHash, key) {
			event := log.Warn().Err(ErrInvalidAdminKey).Str("uri", r.RequestURI)
			if key != "" {
				event = event.Str("key_fingerprint", utils.Fingerprint(key))
			}
			event.Msg("admin key check failed")
			utils.WriteError(w, http.StatusForbidden, app.MsgAccessDenied, "")
			return
		}

		log.Debug().Str("uri", r.RequestURI).Msg("admin key accepted")
		next.ServeHTTP(w, r)
	})
}
