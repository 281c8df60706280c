// Package kpi persists pilot utilization records in SQLite.
package kpi

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	core "github.com/divyarao54/drone-coordinator/core/metrics/utilization"
)

// SQLiteStore persists utilization records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS pilot_kpi (
        pilot_id TEXT,
        day INTEGER,
        assigned INTEGER,
        blocked INTEGER,
        PRIMARY KEY(pilot_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or updates the utilization record for the pilot and day.
func (s *SQLiteStore) Add(r core.Record) error {
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO pilot_kpi (pilot_id, day, assigned, blocked)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(pilot_id, day) DO UPDATE SET
            assigned = assigned + excluded.assigned,
            blocked = blocked + excluded.blocked`,
		r.PilotID, d.Unix(), r.Assigned, r.Blocked)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(pilotID string, start, end time.Time) ([]core.Record, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT pilot_id, day, assigned, blocked
        FROM pilot_kpi WHERE pilot_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		pilotID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var pid string
		var ts int64
		var assigned, blocked int
		if err := rows.Scan(&pid, &ts, &assigned, &blocked); err != nil {
			return nil, err
		}
		res = append(res, core.Record{
			PilotID:  pid,
			Date:     time.Unix(ts, 0).UTC(),
			Assigned: assigned,
			Blocked:  blocked,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
