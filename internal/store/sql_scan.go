package store

import (
	"database/sql"
	"strings"
	"time"
)

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// IP sets are stored as a comma separated list, the layout of the original
// users sheet.
func joinIPs(ips []string) string {
	return strings.Join(ips, ",")
}

func splitIPs(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	ips := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ips = append(ips, p)
		}
	}
	return ips
}

// Timestamps are written in UTC so text-backed dialects compare them in
// lexical order.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func fromNullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
