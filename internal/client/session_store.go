package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/google/uuid"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "scrapegate"
	sessionKey     = "session"
	deviceKey      = "device"
)

// CachedSession is what the keyring holds for the logged-in user.
type CachedSession struct {
	Email   string    `json:"email"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// KeyringSessionStore is a [SessionStore] backed by the OS keyring.
type KeyringSessionStore struct {
	service string
	now     func() time.Time
}

func NewKeyringSessionStore() *KeyringSessionStore {
	return &KeyringSessionStore{service: keyringService, now: time.Now}
}

// Save labels token with the subject found in its claims. The signature is
// not checked here; the server does that on every request.
func (k *KeyringSessionStore) Save(token string) (string, error) {
	email, err := utils.ParseSubjectFromJWT(token)
	if err != nil {
		return "", fmt.Errorf("read token subject: %w", err)
	}

	data, err := json.Marshal(CachedSession{Email: email, Token: token, SavedAt: k.now().UTC()})
	if err != nil {
		return "", err
	}
	if err = keyring.Set(k.service, sessionKey, string(data)); err != nil {
		return "", fmt.Errorf("store session in keyring: %w", err)
	}

	return email, nil
}

func (k *KeyringSessionStore) Load() (CachedSession, error) {
	data, err := keyring.Get(k.service, sessionKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return CachedSession{}, ErrNoSession
		}
		return CachedSession{}, fmt.Errorf("read session from keyring: %w", err)
	}

	var session CachedSession
	if err = json.Unmarshal([]byte(data), &session); err != nil {
		return CachedSession{}, fmt.Errorf("decode cached session: %w", err)
	}
	return session, nil
}

func (k *KeyringSessionStore) Clear() error {
	if err := keyring.Delete(k.service, sessionKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete session from keyring: %w", err)
	}
	return nil
}

func (k *KeyringSessionStore) DeviceID() (string, error) {
	id, err := keyring.Get(k.service, deviceKey)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("read device id from keyring: %w", err)
	}

	id = uuid.NewString()
	if err = keyring.Set(k.service, deviceKey, id); err != nil {
		return "", fmt.Errorf("store device id in keyring: %w", err)
	}
	return id, nil
}
