package service

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/segmentio/ksuid"
)

// IDGenerator produces opaque session identifiers.
type IDGenerator interface {
	NewSessionID(email, deviceID string) string
}

type ksuidGenerator struct{}

// NewIDGenerator returns a generator whose IDs are a short digest of the
// (email, device) pair followed by a KSUID. The KSUID carries the timestamp
// and 128 bits of entropy, so two sessions of the same device never collide.
func NewIDGenerator() IDGenerator {
	return ksuidGenerator{}
}

func (ksuidGenerator) NewSessionID(email, deviceID string) string {
	sum := sha256.Sum256([]byte(email + "|" + deviceID))
	return hex.EncodeToString(sum[:6]) + "-" + ksuid.New().String()
}
