package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validContact = models.ContactRequest{
	Name:    "Bob",
	Email:   "bob@example.com",
	Phone:   "+49 30 1234",
	Message: "Please raise my limit.",
}

func newHandlerWithContact(t *testing.T, contact *mockContactService) *Handler {
	t.Helper()
	svcs := newTestServices(t, &mockAccessService{})
	svcs.ContactService = contact
	return newHandlerWithServices(t, svcs)
}

func TestSubmitContact_Created(t *testing.T) {
	var got models.ContactMessage
	h := newHandlerWithContact(t, &mockContactService{
		submitFn: func(_ context.Context, msg models.ContactMessage) error {
			got = msg
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, validContact))
	req.RemoteAddr = "198.51.100.4:443"
	rec := httptest.NewRecorder()

	h.submitContact(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "bob@example.com", got.Email)
	assert.Equal(t, "+49 30 1234", got.Phone)
	assert.Equal(t, "Please raise my limit.", got.Message)
	assert.Equal(t, "198.51.100.4", got.IPAddress)
}

func TestSubmitContact_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.ContactRequest)
	}{
		{"blank message", func(r *models.ContactRequest) { r.Message = "  " }},
		{"missing name", func(r *models.ContactRequest) { r.Name = "" }},
		{"bad email", func(r *models.ContactRequest) { r.Email = "bob" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validContact
			tt.mutate(&body)
			h := newHandlerWithContact(t, &mockContactService{})

			rec := httptest.NewRecorder()
			h.submitContact(rec, httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSubmitContact_StoreError(t *testing.T) {
	h := newHandlerWithContact(t, &mockContactService{
		submitFn: func(context.Context, models.ContactMessage) error {
			return errors.New("disk full")
		},
	})

	rec := httptest.NewRecorder()
	h.submitContact(rec, httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, validContact)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
