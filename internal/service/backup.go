package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/archive"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/models"
)

// activityCSVHeader is the first row of every backup file.
var activityCSVHeader = []string{
	"timestamp", "email", "ip_address", "platform", "topic", "result", "reason", "device_id",
}

type backupService struct {
	activity store.ActivityRepository
	archive  archive.Archive
	clock    Clock
}

// NewBackupService returns a BackupService writing to arch. A nil arch
// yields a disabled service whose Backup returns ErrBackupDisabled.
func NewBackupService(activity store.ActivityRepository, arch archive.Archive, clock Clock) BackupService {
	return &backupService{
		activity: activity,
		archive:  arch,
		clock:    clock,
	}
}

func (b *backupService) Enabled() bool {
	return b.archive != nil
}

// Backup exports every activity record up to now as CSV, uploads it and
// only then deletes the exported rows. Nothing is deleted when the upload
// fails.
func (b *backupService) Backup(ctx context.Context) (models.BackupResult, error) {
	if !b.Enabled() {
		return models.BackupResult{}, ErrBackupDisabled
	}
	log := logger.FromContext(ctx)

	until := b.clock.Now()
	records, err := b.activity.ListUntil(ctx, until)
	if err != nil {
		return models.BackupResult{}, mapStoreError(err)
	}
	if len(records) == 0 {
		log.Info().Msg("activity backup skipped: log is empty")
		return models.BackupResult{}, nil
	}

	data, err := encodeActivityCSV(records)
	if err != nil {
		return models.BackupResult{}, fmt.Errorf("error encoding activity backup: %w", err)
	}

	name := fmt.Sprintf("activity/activity_backup_%s.csv", until.UTC().Format("20060102_150405"))
	if err = b.archive.Put(ctx, name, data, "text/csv"); err != nil {
		log.Err(err).Str("object", name).Msg("activity backup upload failed")
		return models.BackupResult{}, err
	}

	cleared, err := b.activity.DeleteUntil(ctx, until)
	if err != nil {
		log.Err(err).Str("object", name).Msg("activity backup uploaded but log was not cleared")
		return models.BackupResult{ObjectName: name, Records: len(records)}, mapStoreError(err)
	}

	log.Info().
		Str("object", name).
		Int("records", len(records)).
		Int("cleared", cleared).
		Msg("activity backup completed")
	return models.BackupResult{ObjectName: name, Records: len(records), Cleared: true}, nil
}

func encodeActivityCSV(records []models.ActivityRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(activityCSVHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Email,
			r.IPAddress,
			r.Platform,
			r.Topic,
			string(r.Result),
			r.Reason,
			r.DeviceID,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
