package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyKey is returned by HashAdminKey for an empty key.
var ErrEmptyKey = errors.New("empty key")

// HashAdminKey returns the bcrypt hash of an admin key in the form expected
// by the APP_ADMIN_KEY_HASH setting.
//
// Example usage:
//
//	hash, err := utils.HashAdminKey("s3cret")
func HashAdminKey(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAdminKey reports whether key matches the bcrypt hash. An empty hash
// or key never matches.
func VerifyAdminKey(hash, key string) bool {
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// Fingerprint returns a short, stable SHA-256 digest of s. It is used to
// refer to secrets in logs without printing them.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:4])
}
