package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/scrapegate/internal/locker"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestLimitError(t *testing.T) {
	devices := &LimitError{Kind: LimitDevices, Current: 2, Limit: 2}
	daily := &LimitError{Kind: LimitDaily, Current: 50, Limit: 50}

	assert.Equal(t, "2/2 active devices", devices.Error())
	assert.Equal(t, "Daily limit exceeded (50/50)", daily.Error())
	assert.ErrorIs(t, devices, ErrLimitExceeded)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", daily), ErrLimitExceeded)

	var target *LimitError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", daily), &target))
	assert.Equal(t, 50, target.Limit)
}

func TestMapStoreError(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"store unavailable", fmt.Errorf("%w: dial", store.ErrUnavailable), ErrStoreUnavailable},
		{"lock unavailable", locker.ErrUnavailable, ErrStoreUnavailable},
		{"lock timeout", locker.ErrLockTimeout, ErrStoreUnavailable},
		{"deadline", context.DeadlineExceeded, ErrStoreUnavailable},
		{"user not found", store.ErrUserNotFound, ErrNotFound},
		{"user exists", store.ErrUserAlreadyExists, ErrAlreadyExists},
		{"already banned", store.ErrAlreadyBanned, ErrBanned},
		{"service error passes through", ErrBanned, ErrBanned},
		{"unknown error passes through", boom, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapStoreError(tt.in), tt.want)
		})
	}

	assert.NoError(t, mapStoreError(nil))
}

func TestMapStoreError_CanceledIsNotUnavailable(t *testing.T) {
	// the store layer reports a canceled query as unavailable; the service
	// must still see the cancellation
	fromStore := fmt.Errorf("%w: %w", store.ErrUnavailable, context.Canceled)
	fromLock := fmt.Errorf("%w: %q: %w", locker.ErrLockTimeout, "u@x.com", context.Canceled)

	for _, in := range []error{context.Canceled, fromStore, fromLock} {
		got := mapStoreError(in)
		assert.ErrorIs(t, got, context.Canceled)
		assert.NotErrorIs(t, got, ErrStoreUnavailable)
	}
}

func TestNewIDGenerator(t *testing.T) {
	ids := NewIDGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := ids.NewSessionID("u@x.com", "d1")
		_, dup := seen[id]
		assert.False(t, dup, id)
		seen[id] = struct{}{}
	}

	assert.NotEqual(t,
		ids.NewSessionID("u@x.com", "d1")[:12],
		ids.NewSessionID("u@x.com", "d2")[:12],
	)
}
