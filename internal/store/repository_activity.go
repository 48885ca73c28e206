package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
	sq "github.com/Masterminds/squirrel"
)

var activityColumns = []string{
	"timestamp",
	"email",
	"ip_address",
	"platform",
	"topic",
	"result",
	"reason",
	"device_id",
}

type activityRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewActivityRepository(db *DB, logger *logger.Logger) ActivityRepository {
	logger.Debug().Msg("creating activity repository")
	return &activityRepository{
		db:     db,
		logger: logger,
	}
}

func (r *activityRepository) Append(ctx context.Context, record models.ActivityRecord) error {
	query, args, err := r.db.builder.
		Insert(record.TableName()).
		Columns(activityColumns...).
		Values(
			utc(record.Timestamp),
			record.Email,
			record.IPAddress,
			record.Platform,
			record.Topic,
			string(record.Result),
			record.Reason,
			record.DeviceID,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*activityRepository.Append").Msg("error appending activity")
		return r.db.classify(ErrExecutingStatement, err)
	}
	return nil
}

func (r *activityRepository) ListSince(ctx context.Context, email string, since time.Time) ([]models.ActivityRecord, error) {
	return r.list(ctx, r.selectActivity().
		Where(sq.Eq{"email": email}).
		Where(sq.Gt{"timestamp": utc(since)}))
}

func (r *activityRepository) ListUntil(ctx context.Context, until time.Time) ([]models.ActivityRecord, error) {
	return r.list(ctx, r.selectActivity().
		Where(sq.LtOrEq{"timestamp": utc(until)}))
}

func (r *activityRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, r.db.builder.Select("COUNT(*)").From(models.ActivityRecord{}.TableName()))
}

func (r *activityRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	return count(ctx, r.db, r.db.builder.
		Select("COUNT(*)").
		From(models.ActivityRecord{}.TableName()).
		Where(sq.GtOrEq{"timestamp": utc(since)}))
}

func (r *activityRepository) DeleteUntil(ctx context.Context, until time.Time) (int, error) {
	return execAffected(ctx, r.db, r.db.builder.
		Delete(models.ActivityRecord{}.TableName()).
		Where(sq.LtOrEq{"timestamp": utc(until)}))
}

func (r *activityRepository) selectActivity() sq.SelectBuilder {
	return r.db.builder.
		Select(activityColumns...).
		From(models.ActivityRecord{}.TableName()).
		OrderBy("timestamp", "id")
}

func (r *activityRepository) list(ctx context.Context, builder sq.SelectBuilder) ([]models.ActivityRecord, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*activityRepository.list").Msg("error listing activity")
		return nil, r.db.classify(ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.ActivityRecord, 0)
	for rows.Next() {
		var (
			rec    models.ActivityRecord
			result string
		)
		err = rows.Scan(&rec.Timestamp, &rec.Email, &rec.IPAddress, &rec.Platform, &rec.Topic, &result, &rec.Reason, &rec.DeviceID)
		if err != nil {
			return nil, r.db.classify(ErrScanningRow, err)
		}
		rec.Result = models.ActivityResult(result)
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, r.db.classify(ErrScanningRow, err)
	}

	return records, nil
}
