package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
	sq "github.com/Masterminds/squirrel"
)

var bannedColumns = []string{
	"email",
	"original_registration_date",
	"ban_date",
	"reason",
	"ip_addresses",
	"total_requests",
	"admin_notes",
}

type banRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewBanRepository(db *DB, logger *logger.Logger) BanRepository {
	logger.Debug().Msg("creating ban repository")
	return &banRepository{
		db:     db,
		logger: logger,
	}
}

func (r *banRepository) IsBanned(ctx context.Context, email string) (bool, error) {
	_, err := r.Get(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Get returns the ban record of email or [ErrUserNotFound].
func (r *banRepository) Get(ctx context.Context, email string) (models.BannedUser, error) {
	query, args, err := r.db.builder.
		Select(bannedColumns...).
		From(models.BannedUser{}.TableName()).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return models.BannedUser{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		banned models.BannedUser
		ips    string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&banned.Email,
		&banned.OriginalRegistrationDate,
		&banned.BanDate,
		&banned.Reason,
		&ips,
		&banned.RequestsTotalAtBan,
		&banned.AdminNotes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BannedUser{}, ErrUserNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*banRepository.Get").Msg("error scanning banned user")
		return models.BannedUser{}, r.db.classify(ErrScanningRow, err)
	}
	banned.KnownIPs = splitIPs(ips)

	return banned, nil
}

// Ban moves the user into banned_users and revokes its sessions in a single
// transaction.
func (r *banRepository) Ban(ctx context.Context, banned models.BannedUser) error {
	log := logger.FromContext(ctx)

	deleteUser, deleteUserArgs, err := r.db.builder.
		Delete(models.User{}.TableName()).
		Where(sq.Eq{"email": banned.Email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	insertBan, insertBanArgs, err := r.db.builder.
		Insert(banned.TableName()).
		Columns(bannedColumns...).
		Values(
			banned.Email,
			utc(banned.OriginalRegistrationDate),
			utc(banned.BanDate),
			banned.Reason,
			joinIPs(banned.KnownIPs),
			banned.RequestsTotalAtBan,
			banned.AdminNotes,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	deleteSessions, deleteSessionsArgs, err := r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.Eq{"email": banned.Email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*banRepository.Ban").Msg("error beginning transaction")
		return r.db.classify(ErrBeginningTransaction, err)
	}
	defer rollback(tx, log)

	res, err := tx.ExecContext(ctx, deleteUser, deleteUserArgs...)
	if err != nil {
		return r.db.classify(ErrExecutingStatement, err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return r.db.classify(ErrExecutingStatement, err)
	} else if affected == 0 {
		return ErrUserNotFound
	}

	if _, err = tx.ExecContext(ctx, insertBan, insertBanArgs...); err != nil {
		if r.db.isUniqueViolation(err) {
			return ErrAlreadyBanned
		}
		return r.db.classify(ErrExecutingStatement, err)
	}

	if _, err = tx.ExecContext(ctx, deleteSessions, deleteSessionsArgs...); err != nil {
		return r.db.classify(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*banRepository.Ban").Msg("error committing ban")
		return r.db.classify(ErrCommitingTransaction, err)
	}

	log.Info().Str("email", banned.Email).Str("reason", banned.Reason).Msg("user banned")
	return nil
}

func (r *banRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, r.db.builder.Select("COUNT(*)").From(models.BannedUser{}.TableName()))
}

// count runs a single-value COUNT query.
func count(ctx context.Context, db *DB, builder sq.SelectBuilder) (int, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err = db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, db.classify(ErrExecutingQuery, err)
	}
	return n, nil
}
