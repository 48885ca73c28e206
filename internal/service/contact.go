package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/models"
)

type contactService struct {
	contact store.ContactRepository
	clock   Clock
}

// NewContactService returns a ContactService over repo.
func NewContactService(repo store.ContactRepository, clock Clock) ContactService {
	return &contactService{contact: repo, clock: clock}
}

// Submit stores msg stamped with the current time.
func (c *contactService) Submit(ctx context.Context, msg models.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = models.NormalizeEmail(msg.Email)
	if msg.Name == "" || msg.Email == "" || strings.TrimSpace(msg.Message) == "" {
		return ErrInvalidDataProvided
	}
	msg.Timestamp = c.clock.Now()

	if err := c.contact.Append(ctx, msg); err != nil {
		logger.FromContext(ctx).Err(err).Str("email", msg.Email).Msg("error storing contact message")
		return mapStoreError(err)
	}
	return nil
}

// List returns every stored message, newest first.
func (c *contactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	msgs, err := c.contact.List(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return msgs, nil
}
