// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
)

// Storages aggregates the repositories of one backend.
type Storages struct {
	Users    UserRepository
	Bans     BanRepository
	Sessions SessionRepository
	Activity ActivityRepository
	Contact  ContactRepository

	db *DB
}

// NewStorages connects to the backend selected by cfg.Driver, applies its
// migrations and returns the repositories bound to it.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage: data is lost on restart")
		return NewMemoryStorages(), nil
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLStorages(db, log), nil
}

// NewSQLStorages binds every SQL repository to db.
func NewSQLStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Users:    NewUserRepository(db, log),
		Bans:     NewBanRepository(db, log),
		Sessions: NewSessionRepository(db, log),
		Activity: NewActivityRepository(db, log),
		Contact:  NewContactRepository(db, log),
		db:       db,
	}
}

// Ping reports whether the backend is reachable. The memory backend always is.
func (s *Storages) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
