package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeFormat is the storage format for timestamps: UTC RFC 3339 text.
// All values use the same format so lexicographic comparison in SQL
// matches chronological order.
const timeFormat = time.RFC3339

// Repository defines the persistence boundary for session records.
//
// FindOpen, Create, and Close are the narrow surface consumed by the
// Tracker; the remaining methods serve the reporting layer. No business
// logic lives behind this interface.
type Repository interface {
	// FindOpen returns the most recent open session for a device,
	// ordered by start time descending. Returns ErrNoOpenSession if the
	// device has no session with an absent end time.
	FindOpen(ctx context.Context, deviceID string) (*Session, error)

	// Create inserts a new open session and returns it with its
	// assigned ID.
	Create(ctx context.Context, deviceID, deviceName string, startTime time.Time) (*Session, error)

	// Close sets the end time and duration of an open session.
	// Returns ErrSessionNotFound if the session does not exist or was
	// already closed; a close is applied at most once.
	Close(ctx context.Context, id int64, endTime time.Time, durationSeconds int64) error

	// List returns sessions newest-first, optionally filtered by device
	// and paginated.
	List(ctx context.Context, filter ListFilter) ([]Session, error)

	// CountOpen returns the number of currently open sessions.
	CountOpen(ctx context.Context) (int, error)

	// RangeStats aggregates completed sessions whose start time falls
	// in [from, to).
	RangeStats(ctx context.Context, from, to time.Time) (RangeStats, error)

	// DeviceSummaries returns per-device usage rollups ranked by total
	// play time descending.
	DeviceSummaries(ctx context.Context) ([]DeviceSummary, error)

	// LatestByDevice returns each device's most recent session.
	LatestByDevice(ctx context.Context) ([]Session, error)

	// DailyTotals aggregates completed sessions per calendar day (UTC)
	// for start times in [from, to), ordered by day ascending. Days with
	// no sessions are omitted.
	DailyTotals(ctx context.Context, from, to time.Time) ([]DailyTotal, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the
// game_sessions schema migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sessionColumns = `id, player_id, player_name, start_time, end_time, duration_seconds, created_at`

// FindOpen returns the most recent open session for a device.
func (r *SQLiteRepository) FindOpen(ctx context.Context, deviceID string) (*Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM game_sessions
		WHERE player_id = ? AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, deviceID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenSession
		}
		return nil, fmt.Errorf("querying open session: %w", err)
	}
	return s, nil
}

// Create inserts a new open session.
func (r *SQLiteRepository) Create(ctx context.Context, deviceID, deviceName string, startTime time.Time) (*Session, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO game_sessions (player_id, player_name, start_time, created_at)
		VALUES (?, ?, ?, ?)`,
		deviceID,
		deviceName,
		startTime.UTC().Format(timeFormat),
		now.Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading session id: %w", err)
	}

	return &Session{
		ID:         id,
		DeviceID:   deviceID,
		DeviceName: deviceName,
		StartTime:  startTime.UTC().Truncate(time.Second),
		CreatedAt:  now.Truncate(time.Second),
	}, nil
}

// Close sets the end time and duration of an open session.
func (r *SQLiteRepository) Close(ctx context.Context, id int64, endTime time.Time, durationSeconds int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE game_sessions
		SET end_time = ?, duration_seconds = ?
		WHERE id = ? AND end_time IS NULL`,
		endTime.UTC().Format(timeFormat),
		durationSeconds,
		id,
	)
	if err != nil {
		return fmt.Errorf("closing session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking close result: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// List returns sessions newest-first with optional device filter and pagination.
func (r *SQLiteRepository) List(ctx context.Context, filter ListFilter) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM game_sessions`

	var args []any
	if filter.DeviceID != "" {
		query += ` WHERE player_id = ?`
		args = append(args, filter.DeviceID)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	if filter.PerPage > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.PerPage, (page-1)*filter.PerPage)
	}

	return r.querySessions(ctx, query, args...)
}

// CountOpen returns the number of currently open sessions.
func (r *SQLiteRepository) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_sessions WHERE end_time IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting open sessions: %w", err)
	}
	return count, nil
}

// RangeStats aggregates completed sessions started in [from, to).
func (r *SQLiteRepository) RangeStats(ctx context.Context, from, to time.Time) (RangeStats, error) {
	fromStr := from.UTC().Format(timeFormat)
	toStr := to.UTC().Format(timeFormat)

	var stats RangeStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(duration_seconds), 0),
			COUNT(*),
			(SELECT COUNT(DISTINCT player_id)
			 FROM game_sessions
			 WHERE start_time >= ? AND start_time < ?)
		FROM game_sessions
		WHERE start_time >= ? AND start_time < ?
		  AND duration_seconds IS NOT NULL`,
		fromStr, toStr, fromStr, toStr,
	).Scan(&stats.TotalSeconds, &stats.SessionCount, &stats.ActiveDevices)
	if err != nil {
		return RangeStats{}, fmt.Errorf("querying range stats: %w", err)
	}
	return stats, nil
}

// DeviceSummaries returns per-device rollups ranked by total play time.
// Totals cover completed sessions only; last played covers all sessions,
// and the name is the last seen for the device.
func (r *SQLiteRepository) DeviceSummaries(ctx context.Context) ([]DeviceSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			player_id,
			(SELECT player_name FROM game_sessions s2
			 WHERE s2.player_id = s1.player_id
			 ORDER BY s2.id DESC LIMIT 1),
			COALESCE(SUM(duration_seconds), 0),
			COUNT(duration_seconds),
			MAX(start_time)
		FROM game_sessions s1
		GROUP BY player_id
		ORDER BY COALESCE(SUM(duration_seconds), 0) DESC, player_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying device summaries: %w", err)
	}
	defer rows.Close()

	var summaries []DeviceSummary
	for rows.Next() {
		var s DeviceSummary
		var lastPlayed sql.NullString
		if err := rows.Scan(&s.DeviceID, &s.DeviceName, &s.TotalSeconds, &s.SessionCount, &lastPlayed); err != nil {
			return nil, fmt.Errorf("scanning device summary: %w", err)
		}
		if lastPlayed.Valid {
			t, err := time.Parse(timeFormat, lastPlayed.String)
			if err != nil {
				return nil, fmt.Errorf("parsing last played time: %w", err)
			}
			s.LastPlayed = &t
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device summaries: %w", err)
	}
	return summaries, nil
}

// LatestByDevice returns each device's most recent session.
func (r *SQLiteRepository) LatestByDevice(ctx context.Context) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM game_sessions
		WHERE id IN (SELECT MAX(id) FROM game_sessions GROUP BY player_id)
		ORDER BY player_id`

	return r.querySessions(ctx, query)
}

// DailyTotals aggregates completed sessions per UTC calendar day.
func (r *SQLiteRepository) DailyTotals(ctx context.Context, from, to time.Time) ([]DailyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			substr(start_time, 1, 10),
			COALESCE(SUM(duration_seconds), 0),
			COUNT(*)
		FROM game_sessions
		WHERE start_time >= ? AND start_time < ?
		  AND duration_seconds IS NOT NULL
		GROUP BY substr(start_time, 1, 10)
		ORDER BY substr(start_time, 1, 10)`,
		from.UTC().Format(timeFormat),
		to.UTC().Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("querying daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var d DailyTotal
		if err := rows.Scan(&d.Date, &d.TotalSeconds, &d.SessionCount); err != nil {
			return nil, fmt.Errorf("scanning daily total: %w", err)
		}
		totals = append(totals, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily totals: %w", err)
	}
	return totals, nil
}

// querySessions runs a query returning session rows.
func (r *SQLiteRepository) querySessions(ctx context.Context, query string, args ...any) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession scans a single session row.
func scanSession(row *sql.Row) (*Session, error) {
	return scanSessionRows(row)
}

// scanSessionRows scans a session from any row source.
func scanSessionRows(row rowScanner) (*Session, error) {
	var s Session
	var startTime, createdAt string
	var endTime sql.NullString
	var duration sql.NullInt64

	if err := row.Scan(&s.ID, &s.DeviceID, &s.DeviceName, &startTime, &endTime, &duration, &createdAt); err != nil {
		return nil, err
	}

	var err error
	s.StartTime, err = time.Parse(timeFormat, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	s.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created time: %w", err)
	}

	if endTime.Valid {
		t, err := time.Parse(timeFormat, endTime.String)
		if err != nil {
			return nil, fmt.Errorf("parsing end time: %w", err)
		}
		s.EndTime = &t
	}
	if duration.Valid {
		d := duration.Int64
		s.DurationSeconds = &d
	}

	return &s, nil
}
