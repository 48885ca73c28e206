package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/scrapegate/models"
)

// memoryStore keeps every table in maps guarded by a single RWMutex. It backs
// the "memory" driver and service tests. Values are copied in and out so
// callers never share slices with the store.
type memoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User
	banned   map[string]models.BannedUser
	sessions map[string][]models.Session
	activity []models.ActivityRecord
	contact  []models.ContactMessage
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]models.User),
		banned:   make(map[string]models.BannedUser),
		sessions: make(map[string][]models.Session),
	}
}

// NewMemoryStorages returns [Storages] whose repositories share one
// in-memory store.
func NewMemoryStorages() *Storages {
	m := newMemoryStore()
	return &Storages{
		Users:    memoryUsers{m},
		Bans:     memoryBans{m},
		Sessions: memorySessions{m},
		Activity: memoryActivity{m},
		Contact:  memoryContact{m},
	}
}

func copyUser(u models.User) models.User {
	u.KnownIPs = slices.Clone(u.KnownIPs)
	if u.KnownIPs == nil {
		u.KnownIPs = []string{}
	}
	return u
}

type memoryUsers struct{ m *memoryStore }

func (r memoryUsers) Create(ctx context.Context, user models.User) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[user.Email]; ok {
		return ErrUserAlreadyExists
	}
	r.m.users[user.Email] = copyUser(user)
	return nil
}

func (r memoryUsers) Get(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[email]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r memoryUsers) Update(ctx context.Context, user models.User) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.users[user.Email]
	if !ok {
		return ErrUserNotFound
	}
	user.RegistrationDate = existing.RegistrationDate
	r.m.users[user.Email] = copyUser(user)
	return nil
}

func (r memoryUsers) List(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	users := make([]models.User, 0, len(r.m.users))
	for _, u := range r.m.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

type memoryBans struct{ m *memoryStore }

func (r memoryBans) IsBanned(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	_, ok := r.m.banned[email]
	return ok, nil
}

func (r memoryBans) Get(ctx context.Context, email string) (models.BannedUser, error) {
	if err := ctx.Err(); err != nil {
		return models.BannedUser{}, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	b, ok := r.m.banned[email]
	if !ok {
		return models.BannedUser{}, ErrUserNotFound
	}
	b.KnownIPs = slices.Clone(b.KnownIPs)
	return b, nil
}

// Ban checks every precondition before touching any map, so a failed ban
// leaves the store unchanged.
func (r memoryBans) Ban(ctx context.Context, banned models.BannedUser) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[banned.Email]; !ok {
		return ErrUserNotFound
	}
	if _, ok := r.m.banned[banned.Email]; ok {
		return ErrAlreadyBanned
	}

	banned.KnownIPs = slices.Clone(banned.KnownIPs)
	r.m.banned[banned.Email] = banned
	delete(r.m.users, banned.Email)
	delete(r.m.sessions, banned.Email)
	return nil
}

func (r memoryBans) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	return len(r.m.banned), nil
}

type memorySessions struct{ m *memoryStore }

func (r memorySessions) Create(ctx context.Context, session models.Session) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.sessions[session.Email] = append(r.m.sessions[session.Email], session)
	return nil
}

func (r memorySessions) ListByEmail(ctx context.Context, email string) ([]models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	sessions := slices.Clone(r.m.sessions[email])
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions, nil
}

func (r memorySessions) Touch(ctx context.Context, email, deviceID, ip string, at time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	touched := 0
	sessions := r.m.sessions[email]
	for i := range sessions {
		if sessions[i].DeviceID != deviceID {
			continue
		}
		sessions[i].LastActivity = at
		if ip != "" {
			sessions[i].IPAddress = ip
		}
		touched++
	}
	return touched, nil
}

func (r memorySessions) DeleteByEmail(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	delete(r.m.sessions, email)
	return nil
}

func (r memorySessions) PurgeExpired(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	purged := 0
	for email, sessions := range r.m.sessions {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.LastActivity.Before(cutoff) {
				purged++
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			delete(r.m.sessions, email)
			continue
		}
		r.m.sessions[email] = kept
	}
	return purged, nil
}

type memoryActivity struct{ m *memoryStore }

func (r memoryActivity) Append(ctx context.Context, record models.ActivityRecord) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.activity = append(r.m.activity, record)
	return nil
}

func (r memoryActivity) ListSince(ctx context.Context, email string, since time.Time) ([]models.ActivityRecord, error) {
	return r.filter(ctx, func(rec models.ActivityRecord) bool {
		return rec.Email == email && rec.Timestamp.After(since)
	})
}

func (r memoryActivity) ListUntil(ctx context.Context, until time.Time) ([]models.ActivityRecord, error) {
	return r.filter(ctx, func(rec models.ActivityRecord) bool {
		return !rec.Timestamp.After(until)
	})
}

func (r memoryActivity) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	return len(r.m.activity), nil
}

func (r memoryActivity) CountSince(ctx context.Context, since time.Time) (int, error) {
	records, err := r.filter(ctx, func(rec models.ActivityRecord) bool {
		return !rec.Timestamp.Before(since)
	})
	return len(records), err
}

func (r memoryActivity) DeleteUntil(ctx context.Context, until time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	kept := make([]models.ActivityRecord, 0, len(r.m.activity))
	for _, rec := range r.m.activity {
		if rec.Timestamp.After(until) {
			kept = append(kept, rec)
		}
	}
	deleted := len(r.m.activity) - len(kept)
	r.m.activity = kept
	return deleted, nil
}

func (r memoryActivity) filter(ctx context.Context, keep func(models.ActivityRecord) bool) ([]models.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	records := make([]models.ActivityRecord, 0)
	for _, rec := range r.m.activity {
		if keep(rec) {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp.Before(records[j].Timestamp) })
	return records, nil
}

type memoryContact struct{ m *memoryStore }

func (r memoryContact) Append(ctx context.Context, msg models.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.contact = append(r.m.contact, msg)
	return nil
}

func (r memoryContact) List(ctx context.Context) ([]models.ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUnavailable
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	messages := make([]models.ContactMessage, len(r.m.contact))
	for i, m := range r.m.contact {
		messages[len(messages)-1-i] = m
	}
	return messages, nil
}
