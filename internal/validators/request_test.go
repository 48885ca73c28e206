// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator_Valid(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	tests := []any{
		models.RegisterRequest{Email: "a@x.com", DeviceID: "d1"},
		models.RegisterRequest{Email: "a@x.com", IP: "10.0.0.1", DeviceID: "d1", Tier: "pro"},
		&models.AuthenticateRequest{Email: "a@x.com", IP: "2001:db8::1", DeviceID: "d1"},
		models.ActivityRequest{Platform: "reddit", Result: models.ActivityDenied},
		models.BanRequest{Email: "a@x.com", Reason: "abuse"},
		models.ContactRequest{Name: "Ann", Email: "a@x.com", Message: "hello"},
	}
	for _, req := range tests {
		assert.NoError(t, v.Validate(ctx, req), "%#v", req)
	}
}

func TestRequestValidator_Invalid(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     any
		message string
	}{
		{
			name:    "missing email",
			req:     models.RegisterRequest{DeviceID: "d1"},
			message: "email is required",
		},
		{
			name:    "malformed email",
			req:     models.AuthenticateRequest{Email: "nope", DeviceID: "d1"},
			message: "email must be a valid email",
		},
		{
			name:    "bad ip",
			req:     models.AuthenticateRequest{Email: "a@x.com", IP: "300.1.1.1", DeviceID: "d1"},
			message: "ip must be a valid IP address",
		},
		{
			name:    "unknown tier",
			req:     models.RegisterRequest{Email: "a@x.com", DeviceID: "d1", Tier: "gold"},
			message: "tier must be one of [free pro advanced]",
		},
		{
			name:    "unknown result",
			req:     models.ActivityRequest{Platform: "reddit", Result: "maybe"},
			message: "result must be one of [success failure denied]",
		},
		{
			name:    "blank reason",
			req:     models.BanRequest{Email: "a@x.com", Reason: "   "},
			message: "reason is required",
		},
		{
			name:    "several problems",
			req:     models.ContactRequest{},
			message: "name is required; email is required; message is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.req)
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestRequestValidator_Partial(t *testing.T) {
	v := NewRequestValidator()

	req := models.RegisterRequest{Email: "a@x.com"}
	assert.NoError(t, v.Validate(context.Background(), req, "Email"))
	assert.ErrorIs(t, v.Validate(context.Background(), req), ErrInvalidRequest)
}

func TestRequestValidator_UnsupportedType(t *testing.T) {
	v := NewRequestValidator()

	assert.ErrorIs(t, v.Validate(context.Background(), "not a struct"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(context.Background(), nil), ErrUnsupportedType)
}
