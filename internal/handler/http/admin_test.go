package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/scrapegate/internal/app"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBan_Success(t *testing.T) {
	banDate := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var gotEmail, gotReason, gotNotes string
	access := &mockAccessService{
		banFn: func(_ context.Context, email, reason, notes string) (models.BannedUser, error) {
			gotEmail, gotReason, gotNotes = email, reason, notes
			return models.BannedUser{Email: email, Reason: reason, BanDate: banDate, AdminNotes: notes}, nil
		},
	}

	h := newHandlerWithAccess(t, access)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/ban", jsonBody(t, models.BanRequest{
		Email:      "spam@example.com",
		Reason:     "abuse",
		AdminNotes: "ticket 17",
	}))
	rec := httptest.NewRecorder()

	h.ban(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "spam@example.com", gotEmail)
	assert.Equal(t, "abuse", gotReason)
	assert.Equal(t, "ticket 17", gotNotes)
	assert.Contains(t, rec.Body.String(), `"ban_date":"2026-03-10T12:00:00Z"`)
}

func TestBan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   models.BanRequest
		err    error
		status int
	}{
		{"missing reason", models.BanRequest{Email: "x@example.com"}, nil, http.StatusBadRequest},
		{"unknown user", models.BanRequest{Email: "x@example.com", Reason: "abuse"}, service.ErrNotFound, http.StatusNotFound},
		{"already banned", models.BanRequest{Email: "x@example.com", Reason: "abuse"}, service.ErrBanned, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access := &mockAccessService{
				banFn: func(context.Context, string, string, string) (models.BannedUser, error) {
					return models.BannedUser{}, tt.err
				},
			}
			h := newHandlerWithAccess(t, access)
			rec := httptest.NewRecorder()

			h.ban(rec, httptest.NewRequest(http.MethodPost, "/api/admin/ban", jsonBody(t, tt.body)))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestStats(t *testing.T) {
	access := &mockAccessService{
		statsFn: func(context.Context) (models.UserStats, error) {
			return models.UserStats{
				TotalUsers:  3,
				BannedUsers: 1,
				TierCounts:  map[models.TierName]int{models.TierFree: 2, models.TierPro: 1},
			}, nil
		},
	}

	h := newHandlerWithAccess(t, access)
	rec := httptest.NewRecorder()

	h.stats(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_users":3`)
	assert.Contains(t, rec.Body.String(), `"banned_users":1`)
	assert.Contains(t, rec.Body.String(), `"pro":1`)
}

func TestBackup(t *testing.T) {
	t.Run("uploaded", func(t *testing.T) {
		svcs := newTestServices(t, &mockAccessService{})
		svcs.BackupService = &mockBackupService{
			enabled: true,
			backupFn: func(context.Context) (models.BackupResult, error) {
				return models.BackupResult{ObjectName: "activity/a.csv", Records: 12, Cleared: true}, nil
			},
		}
		rec := httptest.NewRecorder()

		newHandlerWithServices(t, svcs).backup(rec, httptest.NewRequest(http.MethodPost, "/api/admin/backup", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"object_name":"activity/a.csv","records":12,"cleared":true}`, rec.Body.String())
	})

	t.Run("disabled", func(t *testing.T) {
		svcs := newTestServices(t, &mockAccessService{})
		svcs.BackupService = &mockBackupService{
			backupFn: func(context.Context) (models.BackupResult, error) {
				return models.BackupResult{}, service.ErrBackupDisabled
			},
		}
		rec := httptest.NewRecorder()

		newHandlerWithServices(t, svcs).backup(rec, httptest.NewRequest(http.MethodPost, "/api/admin/backup", nil))

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.Equal(t, app.MsgBackupDisabled, decodeError(t, rec).Error)
	})
}

func TestListContact(t *testing.T) {
	t.Run("empty list is an array", func(t *testing.T) {
		h := newHandlerWithContact(t, &mockContactService{
			listFn: func(context.Context) ([]models.ContactMessage, error) { return nil, nil },
		})
		rec := httptest.NewRecorder()

		h.listContact(rec, httptest.NewRequest(http.MethodGet, "/api/admin/contact", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("messages", func(t *testing.T) {
		h := newHandlerWithContact(t, &mockContactService{
			listFn: func(context.Context) ([]models.ContactMessage, error) {
				return []models.ContactMessage{{Name: "Bob", Email: "bob@example.com", Message: "hi"}}, nil
			},
		})
		rec := httptest.NewRecorder()

		h.listContact(rec, httptest.NewRequest(http.MethodGet, "/api/admin/contact", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Bob"`)
	})
}

// TestAdminRoutes_ThroughRouter exercises the admin middleware together with
// a handler.
func TestAdminRoutes_ThroughRouter(t *testing.T) {
	access := &mockAccessService{
		statsFn: func(context.Context) (models.UserStats, error) {
			return models.UserStats{TotalUsers: 1}, nil
		},
	}
	router := newHandlerWithAccess(t, access).Init()

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"no key", "", http.StatusForbidden},
		{"wrong key", "guess", http.StatusForbidden},
		{"right key", testAdminKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.key != "" {
				req.Header.Set(adminKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
