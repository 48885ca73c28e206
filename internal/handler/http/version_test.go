package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHandlerWithAppInfo builds a Handler whose AppInfoService is replaced
// with the provided mock.
func newHandlerWithAppInfo(t *testing.T, svc service.AppInfoService) *Handler {
	t.Helper()
	svcs := newTestServices(t, &mockAccessService{})
	svcs.AppInfoService = svc
	return newHandlerWithServices(t, svcs)
}

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

func TestGetServerVersion_WritesVersion(t *testing.T) {
	const want = "1.2.3"

	h := newHandlerWithAppInfo(t, &mockAppInfoService{version: want})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, rec.Body.String())
	// Handler writes plain text: Content-Type must NOT be application/json.
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestGetServerVersion_VersionWithSpecialChars(t *testing.T) {
	const want = "v2.0.0-beta+build.42"

	h := newHandlerWithAppInfo(t, &mockAppInfoService{version: want})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	assert.Equal(t, want, rec.Body.String())
}

func TestGetServerVersion_JSONWithCapabilities(t *testing.T) {
	h := newHandlerWithAppInfo(t, &mockAppInfoService{
		version: "1.4.0",
		capabilities: config.Capabilities{
			DistributedLock: true,
			Backup:          false,
			Metrics:         true,
			GRPC:            false,
			Admin:           true,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set("Accept", "application/json, text/plain")
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"version": "1.4.0",
		"capabilities": {
			"distributed_lock": true,
			"backup": false,
			"metrics": true,
			"grpc": false,
			"admin": true
		}
	}`, rec.Body.String())
}

func TestGetServerVersion_ViaRouter(t *testing.T) {
	const want = "3.0.0"

	h := newHandlerWithAppInfo(t, &mockAppInfoService{version: want})
	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, rec.Body.String())
}
