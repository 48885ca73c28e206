package workers

import (
	"context"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/service"
)

const (
	jobSessionPurge   = "session_purge"
	jobActivityBackup = "activity_backup"
)

// SessionPurgeJob removes sessions that are no longer live.
func SessionPurgeJob(schedule string, sessions service.SessionService, m *metrics.Metrics) Job {
	return Job{
		Name:     jobSessionPurge,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			removed, err := sessions.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			m.SessionsPurged(removed)
			logger.FromContext(ctx).Info().Int("removed", removed).Msg("expired sessions purged")
			return nil
		},
	}
}

// ActivityBackupJob archives and clears the activity log.
func ActivityBackupJob(schedule string, backup service.BackupService) Job {
	return Job{
		Name:     jobActivityBackup,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			_, err := backup.Backup(ctx)
			return err
		},
	}
}
