// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SessionCtxKey is the key under which the authenticated session claims
// are stored in the request context.
//
// Example of writing a value to the context:
//
//	ctx := utils.WithSession(ctx, utils.SessionClaims{Email: "a@b.c"})
var SessionCtxKey = contextKey("session")

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session SessionClaims) context.Context {
	return context.WithValue(ctx, SessionCtxKey, session)
}

// GetSessionFromContext retrieves the session claims from the context.
//
// Returns the claims and an ok flag:
//   - ok == true : value is found, has the correct type and a non-empty email
//   - ok == false: value is missing or has an unexpected type
//
// Example usage:
//
//	session, ok := utils.GetSessionFromContext(ctx)
//	if !ok {
//	    // handle missing session in context
//	}
func GetSessionFromContext(ctx context.Context) (SessionClaims, bool) {
	session, ok := ctx.Value(SessionCtxKey).(SessionClaims)
	if !ok || session.Email == "" {
		return SessionClaims{}, false
	}
	return session, true
}
