package workers

import (
	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers schedules the maintenance jobs enabled in cfg. The backup job
// is skipped when the backup service has no archive.
func NewWorkers(cfg config.Workers, services *service.Services, m *metrics.Metrics, log *logger.Logger) (*Workers, error) {
	var jobs []Job
	if cfg.SessionPurgeSchedule != "" {
		jobs = append(jobs, SessionPurgeJob(cfg.SessionPurgeSchedule, services.SessionService, m))
	}
	if cfg.BackupSchedule != "" && services.BackupService.Enabled() {
		jobs = append(jobs, ActivityBackupJob(cfg.BackupSchedule, services.BackupService))
	}

	ws := &Workers{}
	if len(jobs) == 0 {
		log.Info().Msg("no background jobs are scheduled")
		return ws, nil
	}

	scheduler, err := NewScheduler(jobs, log)
	if err != nil {
		return nil, err
	}
	ws.workers = append(ws.workers, scheduler)

	return ws, nil
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

func (w *Workers) Stop() {
	for _, worker := range w.workers {
		worker.Stop()
	}
}
