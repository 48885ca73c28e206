package store

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns every Storages implementation the contract tests run on.
func backends(t *testing.T) map[string]*Storages {
	t.Helper()

	sqlite, err := NewStorages(context.Background(), config.DB{Driver: config.DriverSQLite, DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]*Storages{
		"memory": NewMemoryStorages(),
		"sqlite": sqlite,
	}
}

var base = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func TestStorages_UserLifecycle(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			user := models.User{
				Email:            "a@x.io",
				RegistrationDate: base,
				Tier:             models.TierPro,
				KnownIPs:         []string{"1.1.1.1"},
				Status:           models.UserStatusActive,
			}

			require.NoError(t, s.Users.Create(ctx, user))
			assert.ErrorIs(t, s.Users.Create(ctx, user), ErrUserAlreadyExists)

			got, err := s.Users.Get(ctx, "a@x.io")
			require.NoError(t, err)
			assert.True(t, got.RegistrationDate.Equal(base))
			assert.True(t, got.LastLogin.IsZero())

			got.RequestsToday = 3
			got.RequestsTotal = 9
			got.LastLogin = base.Add(time.Hour)
			got.KnownIPs = append(got.KnownIPs, "2.2.2.2")
			require.NoError(t, s.Users.Update(ctx, got))

			got, err = s.Users.Get(ctx, "a@x.io")
			require.NoError(t, err)
			assert.Equal(t, 3, got.RequestsToday)
			assert.Equal(t, 9, got.RequestsTotal)
			assert.Equal(t, []string{"1.1.1.1", "2.2.2.2"}, got.KnownIPs)
			assert.True(t, got.LastLogin.Equal(base.Add(time.Hour)))

			_, err = s.Users.Get(ctx, "ghost@x.io")
			assert.ErrorIs(t, err, ErrUserNotFound)
			assert.ErrorIs(t, s.Users.Update(ctx, models.User{Email: "ghost@x.io"}), ErrUserNotFound)

			users, err := s.Users.List(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 1)
		})
	}
}

func TestStorages_BanCascade(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			user := models.User{Email: "a@x.io", RegistrationDate: base, Tier: models.TierFree, Status: models.UserStatusActive, RequestsTotal: 7}
			require.NoError(t, s.Users.Create(ctx, user))
			require.NoError(t, s.Sessions.Create(ctx, models.Session{Email: "a@x.io", SessionID: "s1", DeviceID: "d1", LoginTime: base, LastActivity: base}))
			require.NoError(t, s.Sessions.Create(ctx, models.Session{Email: "a@x.io", SessionID: "s2", DeviceID: "d2", LoginTime: base, LastActivity: base}))

			banned := models.NewBannedUser(user, base.Add(time.Hour), "Excessive requests", "")
			require.NoError(t, s.Bans.Ban(ctx, banned))

			isBanned, err := s.Bans.IsBanned(ctx, "a@x.io")
			require.NoError(t, err)
			assert.True(t, isBanned)

			_, err = s.Users.Get(ctx, "a@x.io")
			assert.ErrorIs(t, err, ErrUserNotFound)

			sessions, err := s.Sessions.ListByEmail(ctx, "a@x.io")
			require.NoError(t, err)
			assert.Empty(t, sessions)

			record, err := s.Bans.Get(ctx, "a@x.io")
			require.NoError(t, err)
			assert.Equal(t, 7, record.RequestsTotalAtBan)

			// second ban finds no active user and changes nothing
			assert.ErrorIs(t, s.Bans.Ban(ctx, banned), ErrUserNotFound)
			n, err := s.Bans.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestStorages_Sessions(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Sessions.Create(ctx, models.Session{Email: "a@x.io", SessionID: "s1", DeviceID: "d1", IPAddress: "1.1.1.1", LoginTime: base, LastActivity: base}))
			require.NoError(t, s.Sessions.Create(ctx, models.Session{Email: "a@x.io", SessionID: "s2", DeviceID: "d2", LoginTime: base, LastActivity: base.Add(2 * time.Hour)}))

			touched, err := s.Sessions.Touch(ctx, "a@x.io", "d1", "9.9.9.9", base.Add(30*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 1, touched)

			sessions, err := s.Sessions.ListByEmail(ctx, "a@x.io")
			require.NoError(t, err)
			require.Len(t, sessions, 2)
			assert.Equal(t, "9.9.9.9", sessions[0].IPAddress)
			assert.True(t, sessions[0].LastActivity.Equal(base.Add(30*time.Minute)))

			purged, err := s.Sessions.PurgeExpired(ctx, base.Add(time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 1, purged)

			sessions, err = s.Sessions.ListByEmail(ctx, "a@x.io")
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			assert.Equal(t, "s2", sessions[0].SessionID)
		})
	}
}

func TestStorages_Activity(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, email := range []string{"a@x.io", "b@x.io", "a@x.io", "a@x.io"} {
				require.NoError(t, s.Activity.Append(ctx, models.ActivityRecord{
					Timestamp: base.Add(time.Duration(i) * 20 * time.Minute),
					Email:     email,
					Result:    models.ActivitySuccess,
				}))
			}

			recent, err := s.Activity.ListSince(ctx, "a@x.io", base.Add(20*time.Minute))
			require.NoError(t, err)
			assert.Len(t, recent, 2)

			// запись ровно на границе окна не входит в выборку
			edge, err := s.Activity.ListSince(ctx, "a@x.io", base.Add(40*time.Minute))
			require.NoError(t, err)
			require.Len(t, edge, 1)
			assert.Equal(t, base.Add(60*time.Minute), edge[0].Timestamp.UTC())

			total, err := s.Activity.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 4, total)

			since, err := s.Activity.CountSince(ctx, base.Add(40*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 2, since)

			old, err := s.Activity.ListUntil(ctx, base.Add(20*time.Minute))
			require.NoError(t, err)
			assert.Len(t, old, 2)

			deleted, err := s.Activity.DeleteUntil(ctx, base.Add(20*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 2, deleted)

			total, err = s.Activity.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, total)
		})
	}
}

func TestStorages_Contact(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Contact.Append(ctx, models.ContactMessage{Name: "A", Email: "a@x.io", Message: "first", Timestamp: base}))
			require.NoError(t, s.Contact.Append(ctx, models.ContactMessage{Name: "B", Email: "b@x.io", Message: "second", Timestamp: base.Add(time.Minute)}))

			messages, err := s.Contact.List(ctx)
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, "second", messages[0].Message)
		})
	}
}

func TestMemoryStore_CanceledContextIsUnavailable(t *testing.T) {
	s := NewMemoryStorages()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Users.Get(ctx, "a@x.io")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewStorages_UnknownDriver(t *testing.T) {
	_, err := NewStorages(context.Background(), config.DB{Driver: "oracle"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
