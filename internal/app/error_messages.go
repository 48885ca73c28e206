// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// scrapegate server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgInvalidDataProvided is returned when the request body fails
	// validation (e.g. missing required fields or a malformed email).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is either
	// expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoSessionProvided is returned when a handler requires the
	// authenticated session but none is present in the request context.
	MsgNoSessionProvided = "no session provided"

	// MsgUserNotFound is returned when the email is not registered.
	MsgUserNotFound = "user not found"

	// MsgUserAlreadyExists is returned when a registration attempt is
	// rejected because the email is already registered.
	MsgUserAlreadyExists = "user already exists"

	// MsgUserBanned is returned when the email is on the ban list.
	MsgUserBanned = "user is banned"

	// MsgLimitExceeded is returned when a device or daily limit is reached.
	MsgLimitExceeded = "limit exceeded"

	// MsgStoreUnavailable is returned when the backing store cannot be
	// reached and the fail policy does not answer for it.
	MsgStoreUnavailable = "store unavailable, try again later"

	// MsgAccessDenied is returned when the admin key is missing or wrong.
	MsgAccessDenied = "access denied"

	// MsgBackupDisabled is returned when an activity backup is requested
	// but no archive is configured.
	MsgBackupDisabled = "activity backup is not configured"
)
