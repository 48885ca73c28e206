package models

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a session bearer token issued after a successful
// authentication.
//
// The "sub" claim carries the user's email and the "jti" claim carries the
// session ID, so an activity request can be attributed to both without a
// store lookup.
type Token struct {
	*jwt.Token `json:"-"`
	jwt.RegisteredClaims

	// DeviceID is the device the session was granted to.
	DeviceID string `json:"did,omitempty"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`
}

// Email returns the subject claim.
func (t *Token) Email() (string, error) {
	email, err := t.GetSubject()
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", errors.New("empty subject")
	}
	return email, nil
}

// SessionID returns the "jti" claim.
func (t *Token) SessionID() string {
	return t.ID
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
