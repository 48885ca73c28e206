package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/locker"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/internal/tiers"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func testPolicy() config.Policy {
	return config.Policy{
		LivenessWindow:           time.Hour,
		AnomalyWindow:            time.Hour,
		MaxIPsPerWindow:          3,
		MaxFreeRequestsPerWindow: 100,
	}
}

func testApp(policy string) config.App {
	return config.App{
		TokenSignKey:  "test-key",
		TokenIssuer:   "scrapegate-test",
		TokenDuration: time.Hour,
		StoreTimeout:  time.Second,
		FailPolicy:    policy,
	}
}

type harness struct {
	svc      AccessService
	core     Core
	storages *store.Storages
	clock    *fakeClock
}

func newHarnessOn(t *testing.T, storages *store.Storages) *harness {
	t.Helper()
	clock := newFakeClock(day1)
	core := NewCore(storages, tiers.Default(), testPolicy(), clock, NewIDGenerator())
	return &harness{
		svc:      NewAccessService(core, locker.NewKeyedMutex(), testApp(config.FailOpen), nil),
		core:     core,
		storages: storages,
		clock:    clock,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(t, store.NewMemoryStorages())
}

func (h *harness) register(t *testing.T, email string, tier models.TierName) models.User {
	t.Helper()
	user, err := h.svc.Register(context.Background(), email, "10.0.0.1", "setup-device", tier)
	require.NoError(t, err)
	return user
}

func (h *harness) logSuccess(t *testing.T, email, ip string) models.ActivityOutcome {
	t.Helper()
	outcome, err := h.svc.LogActivity(context.Background(), models.ActivityRecord{
		Email:     email,
		IPAddress: ip,
		Platform:  "reddit",
		Topic:     "golang",
		Result:    models.ActivitySuccess,
	})
	require.NoError(t, err)
	return outcome
}

// backends returns every storage implementation the flow tests run on.
func backends(t *testing.T) map[string]*store.Storages {
	t.Helper()

	sqlite, err := store.NewStorages(context.Background(), config.DB{Driver: config.DriverSQLite, DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]*store.Storages{
		"memory": store.NewMemoryStorages(),
		"sqlite": sqlite,
	}
}
