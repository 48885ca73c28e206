// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the subcommand named by args[0] and returns when it is
	// done.
	Run(ctx context.Context, args []string) error
}

// SessionStore keeps the client's session between invocations.
type SessionStore interface {
	// Save stores token and returns the email it was issued for.
	Save(token string) (string, error)
	// Load returns the stored session or ErrNoSession.
	Load() (CachedSession, error)
	// Clear forgets the stored session. Clearing an empty store is not an
	// error.
	Clear() error
	// DeviceID returns the identifier of this installation, creating it on
	// first use.
	DeviceID() (string, error)
}
