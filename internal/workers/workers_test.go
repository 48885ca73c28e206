// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/mock"
	"github.com/MKhiriev/scrapegate/internal/service"
	"github.com/MKhiriev/scrapegate/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run and Stop were called.
type mockWorker struct {
	runCount  int
	stopCount int
}

func (m *mockWorker) Run()  { m.runCount++ }
func (m *mockWorker) Stop() { m.stopCount++ }

func TestWorkers_RunStop_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}

	ws := &Workers{workers: []Worker{w1, w2}}
	ws.Run()
	ws.Stop()

	for i, w := range []*mockWorker{w1, w2} {
		if w.runCount != 1 || w.stopCount != 1 {
			t.Errorf("worker[%d]: expected run=1 stop=1, got run=%d stop=%d", i, w.runCount, w.stopCount)
		}
	}
}

func TestWorkers_RunStop_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run()
	ws.Stop()
}

func TestNewWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	backup := mock.NewMockBackupService(ctrl)
	services := &service.Services{
		SessionService: mock.NewMockSessionService(ctrl),
		BackupService:  backup,
	}

	t.Run("nothing scheduled", func(t *testing.T) {
		ws, err := NewWorkers(config.Workers{}, services, nil, logger.Nop())
		require.NoError(t, err)
		assert.Empty(t, ws.workers)
	})

	t.Run("backup disabled", func(t *testing.T) {
		backup.EXPECT().Enabled().Return(false)

		ws, err := NewWorkers(config.Workers{
			SessionPurgeSchedule: "0 */15 * * * *",
			BackupSchedule:       "0 0 3 * * 0",
		}, services, nil, logger.Nop())
		require.NoError(t, err)
		require.Len(t, ws.workers, 1)

		scheduler := ws.workers[0].(*Scheduler)
		assert.Len(t, scheduler.cron.Entries(), 1)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		_, err := NewWorkers(config.Workers{SessionPurgeSchedule: "every now and then"}, services, nil, logger.Nop())
		assert.ErrorContains(t, err, jobSessionPurge)
	})
}

func TestSessionPurgeJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionService(ctrl)
	m := metrics.New()

	job := SessionPurgeJob("@every 1m", sessions, m)
	assert.Equal(t, jobSessionPurge, job.Name)

	sessions.EXPECT().PurgeExpired(gomock.Any()).Return(4, nil)
	require.NoError(t, job.Run(context.Background()))
	expected := `
# HELP scrapegate_sessions_purged_total Expired sessions removed by the purge job.
# TYPE scrapegate_sessions_purged_total counter
scrapegate_sessions_purged_total 4
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "scrapegate_sessions_purged_total"))

	sessions.EXPECT().PurgeExpired(gomock.Any()).Return(0, service.ErrStoreUnavailable)
	assert.ErrorIs(t, job.Run(context.Background()), service.ErrStoreUnavailable)
}

func TestActivityBackupJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	backup := mock.NewMockBackupService(ctrl)

	job := ActivityBackupJob("0 0 3 * * 0", backup)

	backup.EXPECT().Backup(gomock.Any()).Return(models.BackupResult{Records: 2, Cleared: true}, nil)
	require.NoError(t, job.Run(context.Background()))

	boom := errors.New("bucket gone")
	backup.EXPECT().Backup(gomock.Any()).Return(models.BackupResult{}, boom)
	assert.ErrorIs(t, job.Run(context.Background()), boom)
}

func TestScheduler_RunsAndStops(t *testing.T) {
	var runs atomic.Int32
	fired := make(chan struct{}, 1)

	s, err := NewScheduler([]Job{{
		Name:     "tick",
		Schedule: "* * * * * *",
		Run: func(ctx context.Context) error {
			runs.Add(1)
			select {
			case fired <- struct{}{}:
			default:
			}
			return nil
		},
	}}, logger.Nop())
	require.NoError(t, err)

	s.Run()
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	s.Stop()

	after := runs.Load()
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
	assert.ErrorIs(t, s.ctx.Err(), context.Canceled)
}
