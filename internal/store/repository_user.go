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

var userColumns = []string{
	"email",
	"registration_date",
	"user_type",
	"ip_addresses",
	"last_login",
	"requests_today",
	"total_requests",
	"device_count",
	"status",
	"notes",
	"last_request_at",
}

// userRepository is the SQL implementation of [UserRepository] over the
// "users" table.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts user.
//
// Error handling:
//   - unique/primary key violation → [ErrUserAlreadyExists].
//   - transient driver error → wraps [ErrUnavailable].
func (r *userRepository) Create(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(models.User{}.TableName()).
		Columns(userColumns...).
		Values(
			user.Email,
			utc(user.RegistrationDate),
			string(user.Tier),
			joinIPs(user.KnownIPs),
			nullTime(user.LastLogin),
			user.RequestsToday,
			user.RequestsTotal,
			user.DeviceCount,
			string(user.Status),
			user.Notes,
			nullTime(user.LastRequestAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		if r.db.isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.Create").Msg("error inserting user")
		return r.db.classify(ErrExecutingStatement, err)
	}

	return nil
}

// Get returns the user with the given email or [ErrUserNotFound].
func (r *userRepository) Get(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Get").Msg("error scanning user")
		return models.User{}, r.db.classify(ErrScanningRow, err)
	}

	return user, nil
}

// Update overwrites every mutable column of the user row.
func (r *userRepository) Update(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(models.User{}.TableName()).
		SetMap(map[string]any{
			"user_type":       string(user.Tier),
			"ip_addresses":    joinIPs(user.KnownIPs),
			"last_login":      nullTime(user.LastLogin),
			"requests_today":  user.RequestsToday,
			"total_requests":  user.RequestsTotal,
			"device_count":    user.DeviceCount,
			"status":          string(user.Status),
			"notes":           user.Notes,
			"last_request_at": nullTime(user.LastRequestAt),
		}).
		Where(sq.Eq{"email": user.Email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Update").Msg("error updating user")
		return r.db.classify(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return r.db.classify(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// List returns every active user ordered by email.
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		OrderBy("email").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.List").Msg("error listing users")
		return nil, r.db.classify(ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, r.db.classify(ErrScanningRow, err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, r.db.classify(ErrScanningRow, err)
	}

	return users, nil
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user                   models.User
		tier, ips, status      string
		lastLogin, lastRequest sql.NullTime
	)

	err := row.Scan(
		&user.Email,
		&user.RegistrationDate,
		&tier,
		&ips,
		&lastLogin,
		&user.RequestsToday,
		&user.RequestsTotal,
		&user.DeviceCount,
		&status,
		&user.Notes,
		&lastRequest,
	)
	if err != nil {
		return models.User{}, err
	}

	user.Tier = models.ParseTierName(tier)
	user.KnownIPs = splitIPs(ips)
	user.Status = models.UserStatus(status)
	user.LastLogin = fromNullTime(lastLogin)
	user.LastRequestAt = fromNullTime(lastRequest)

	return user, nil
}
