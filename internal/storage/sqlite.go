// Package storage keeps the relay server directory in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/woozymasta/lanplay/internal/models"
	_ "modernc.org/sqlite" // Driver sqlite
)

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

const relayColumns = `
	url, name, monitor_id, monitor_status, uptime_ratio, country_code,
	online, idle, reachable, first_seen, last_seen, last_checked`

// New opens the database at dbPath, tunes the pool and runs migrations.
func New(ctx context.Context, dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// UpsertRelayServer records a discovered relay. first_seen is kept on conflict,
// a blank country code does not overwrite a known one.
func (r *Repository) UpsertRelayServer(ctx context.Context, s models.RelayServer) error {
	const query = `
	INSERT INTO relay_servers (
		url, name, monitor_id, monitor_status, uptime_ratio, country_code,
		online, idle, reachable, first_seen, last_seen
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		name           = excluded.name,
		monitor_id     = excluded.monitor_id,
		monitor_status = excluded.monitor_status,
		uptime_ratio   = excluded.uptime_ratio,
		last_seen      = excluded.last_seen,
		country_code   = CASE WHEN excluded.country_code != '' THEN excluded.country_code ELSE relay_servers.country_code END;
	`

	_, err := r.db.ExecContext(ctx, query,
		s.URL, s.Name, s.MonitorID, s.MonitorStatus, s.UptimeRatio, s.CountryCode,
		s.Online, s.Idle, s.Reachable, s.FirstSeen, s.LastSeen,
	)

	return err
}

// UpdateRelayStatus stores the result of a health check.
func (r *Repository) UpdateRelayStatus(ctx context.Context, url string, online, idle int, reachable bool, checkedAt time.Time) error {
	const query = `
	UPDATE relay_servers SET
		online       = CASE WHEN ? THEN ? ELSE online END,
		idle         = CASE WHEN ? THEN ? ELSE idle END,
		reachable    = ?,
		last_checked = ?
	WHERE url = ?`

	_, err := r.db.ExecContext(ctx, query, reachable, online, reachable, idle, reachable, checkedAt, url)

	return err
}

// GetRelayServers returns all relays, busiest first.
func (r *Repository) GetRelayServers(ctx context.Context) ([]models.RelayServer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+relayColumns+` FROM relay_servers ORDER BY online DESC, url ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var servers []models.RelayServer
	for rows.Next() {
		s, err := scanRelay(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return servers, nil
}

// GetRelayServer returns the relay stored under url, nil when unknown.
func (r *Repository) GetRelayServer(ctx context.Context, url string) (*models.RelayServer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+relayColumns+` FROM relay_servers WHERE url = ?`, url)

	s, err := scanRelay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// DeleteRelayServer removes a relay from the directory.
func (r *Repository) DeleteRelayServer(ctx context.Context, url string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM relay_servers WHERE url = ?`, url)
	return err
}

// DeleteUnreachable removes relays whose last health check failed.
// Relays never checked are kept.
func (r *Repository) DeleteUnreachable(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM relay_servers WHERE reachable = 0 AND last_checked IS NOT NULL`)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRelay(row scanner) (models.RelayServer, error) {
	var (
		s       models.RelayServer
		checked sql.NullTime
	)

	err := row.Scan(
		&s.URL, &s.Name, &s.MonitorID, &s.MonitorStatus, &s.UptimeRatio, &s.CountryCode,
		&s.Online, &s.Idle, &s.Reachable, &s.FirstSeen, &s.LastSeen, &checked,
	)
	if err != nil {
		return models.RelayServer{}, err
	}
	if checked.Valid {
		s.LastChecked = checked.Time
	}

	return s, nil
}
