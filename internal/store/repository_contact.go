package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
)

type contactRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewContactRepository(db *DB, logger *logger.Logger) ContactRepository {
	logger.Debug().Msg("creating contact repository")
	return &contactRepository{
		db:     db,
		logger: logger,
	}
}

func (r *contactRepository) Append(ctx context.Context, msg models.ContactMessage) error {
	query, args, err := r.db.builder.
		Insert(msg.TableName()).
		Columns("name", "email", "phone", "message", "timestamp", "ip_address").
		Values(msg.Name, msg.Email, msg.Phone, msg.Message, utc(msg.Timestamp), msg.IPAddress).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*contactRepository.Append").Msg("error saving contact message")
		return r.db.classify(ErrExecutingStatement, err)
	}
	return nil
}

// List returns all contact messages, newest first.
func (r *contactRepository) List(ctx context.Context) ([]models.ContactMessage, error) {
	query, args, err := r.db.builder.
		Select("name", "email", "phone", "message", "timestamp", "ip_address").
		From(models.ContactMessage{}.TableName()).
		OrderBy("timestamp DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.db.classify(ErrExecutingQuery, err)
	}
	defer rows.Close()

	messages := make([]models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		if err = rows.Scan(&m.Name, &m.Email, &m.Phone, &m.Message, &m.Timestamp, &m.IPAddress); err != nil {
			return nil, r.db.classify(ErrScanningRow, err)
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, r.db.classify(ErrScanningRow, err)
	}

	return messages, nil
}
