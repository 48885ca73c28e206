package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/scrapegate/internal/locker"
	"github.com/MKhiriev/scrapegate/internal/store"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrAlreadyExists    = errors.New("user already exists")
	ErrBanned           = errors.New("user is banned")
	ErrLimitExceeded    = errors.New("limit exceeded")
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrBackupDisabled = errors.New("activity backup is not configured")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// LimitKind names the limit a [LimitError] refers to.
type LimitKind string

const (
	LimitDevices LimitKind = "devices"
	LimitDaily   LimitKind = "daily"
)

// LimitError reports which limit was hit and by how much. It matches
// [ErrLimitExceeded] with errors.Is.
type LimitError struct {
	Kind    LimitKind
	Current int
	Limit   int
}

func (e *LimitError) Error() string {
	switch e.Kind {
	case LimitDevices:
		return fmt.Sprintf("%d/%d active devices", e.Current, e.Limit)
	case LimitDaily:
		return fmt.Sprintf("Daily limit exceeded (%d/%d)", e.Current, e.Limit)
	}
	return fmt.Sprintf("%s limit exceeded (%d/%d)", e.Kind, e.Current, e.Limit)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// mapStoreError translates store and locker failures into service errors.
// Errors that already carry a service sentinel are returned unchanged. A
// canceled context means the caller went away, not that the store did, so it
// is returned as is and never triggers the fail policy.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrBanned),
		errors.Is(err, ErrLimitExceeded),
		errors.Is(err, ErrInvalidDataProvided):
		return err
	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, locker.ErrUnavailable),
		errors.Is(err, locker.ErrLockTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	case errors.Is(err, store.ErrUserNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrUserAlreadyExists):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	case errors.Is(err, store.ErrAlreadyBanned):
		return fmt.Errorf("%w: %w", ErrBanned, err)
	}
	return err
}
