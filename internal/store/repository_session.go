package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
	sq "github.com/Masterminds/squirrel"
)

var sessionColumns = []string{
	"session_id",
	"email",
	"device_id",
	"ip_address",
	"login_time",
	"last_activity",
}

type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session models.Session) error {
	query, args, err := r.db.builder.
		Insert(session.TableName()).
		Columns(sessionColumns...).
		Values(
			session.SessionID,
			session.Email,
			session.DeviceID,
			session.IPAddress,
			utc(session.LoginTime),
			utc(session.LastActivity),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionRepository.Create").Msg("error inserting session")
		return r.db.classify(ErrExecutingStatement, err)
	}
	return nil
}

// ListByEmail returns every stored session of email, live or not, oldest
// login first.
func (r *sessionRepository) ListByEmail(ctx context.Context, email string) ([]models.Session, error) {
	query, args, err := r.db.builder.
		Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{"email": email}).
		OrderBy("login_time", "session_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionRepository.ListByEmail").Msg("error listing sessions")
		return nil, r.db.classify(ErrExecutingQuery, err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var s models.Session
		if err = rows.Scan(&s.SessionID, &s.Email, &s.DeviceID, &s.IPAddress, &s.LoginTime, &s.LastActivity); err != nil {
			return nil, r.db.classify(ErrScanningRow, err)
		}
		sessions = append(sessions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, r.db.classify(ErrScanningRow, err)
	}

	return sessions, nil
}

func (r *sessionRepository) Touch(ctx context.Context, email, deviceID, ip string, at time.Time) (int, error) {
	update := r.db.builder.
		Update(models.Session{}.TableName()).
		Set("last_activity", utc(at)).
		Where(sq.Eq{"email": email, "device_id": deviceID})
	if ip != "" {
		update = update.Set("ip_address", ip)
	}

	return r.exec(ctx, update)
}

func (r *sessionRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.exec(ctx, r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.Eq{"email": email}))
	return err
}

func (r *sessionRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int, error) {
	return r.exec(ctx, r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.Lt{"last_activity": utc(cutoff)}))
}

func (r *sessionRepository) exec(ctx context.Context, stmt sq.Sqlizer) (int, error) {
	return execAffected(ctx, r.db, stmt)
}

// execAffected runs a DML statement and returns the number of rows it touched.
func execAffected(ctx context.Context, db *DB, stmt sq.Sqlizer) (int, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("query", query).Msg("error executing statement")
		return 0, db.classify(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, db.classify(ErrExecutingStatement, err)
	}
	return int(affected), nil
}
