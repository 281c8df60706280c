// Package sqlitestore persists the fleet in a SQLite database. Unlike the
// CSV files, the three-record assignment write is a real transaction, so a
// failure leaves nothing half-applied.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/divyarao54/drone-coordinator/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS pilots (
    pilot_id TEXT PRIMARY KEY,
    name TEXT,
    skills TEXT,
    certifications TEXT,
    location TEXT,
    status TEXT,
    current_assignment TEXT,
    available_from TEXT,
    seq INTEGER
);
CREATE TABLE IF NOT EXISTS drones (
    drone_id TEXT PRIMARY KEY,
    model TEXT,
    capabilities TEXT,
    status TEXT,
    location TEXT,
    current_assignment TEXT,
    maintenance_due TEXT,
    seq INTEGER
);
CREATE TABLE IF NOT EXISTS missions (
    project_id TEXT PRIMARY KEY,
    client TEXT,
    location TEXT,
    required_skills TEXT,
    required_certs TEXT,
    start_date TEXT,
    end_date TEXT,
    priority TEXT,
    assigned_pilot TEXT,
    assigned_drone TEXT,
    seq INTEGER
);`

// Store implements fleet.Store on a SQLite database. List order follows the
// seq column, which Seed assigns from slice order, so roster and fleet
// ordering behave like the file-backed stores.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at path and ensures the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Seed replaces the stored fleet with the given snapshot. Row order in the
// slices becomes list order in the store.
func (s *Store) Seed(ctx context.Context, pilots []model.Pilot, drones []model.Drone, missions []model.Mission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"pilots", "drones", "missions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	for i, p := range pilots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pilots (pilot_id, name, skills, certifications, location, status, current_assignment, available_from, seq)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, joinList(p.Skills), joinList(p.Certifications),
			p.Location, string(p.Status), p.CurrentAssignment, p.AvailableFrom.String(), i); err != nil {
			return err
		}
	}
	for i, d := range drones {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO drones (drone_id, model, capabilities, status, location, current_assignment, maintenance_due, seq)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.Model, joinList(d.Capabilities), string(d.Status),
			d.Location, d.CurrentAssignment, d.MaintenanceDue.String(), i); err != nil {
			return err
		}
	}
	for i, m := range missions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO missions (project_id, client, location, required_skills, required_certs, start_date, end_date, priority, assigned_pilot, assigned_drone, seq)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ProjectID, m.Client, m.Location, joinList(m.RequiredSkills), joinList(m.RequiredCerts),
			m.StartDate.String(), m.EndDate.String(), m.Priority.String(),
			m.AssignedPilot, m.AssignedDrone, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const pilotCols = `pilot_id, name, skills, certifications, location, status, current_assignment, available_from`

func scanPilot(row interface{ Scan(...any) error }) (model.Pilot, error) {
	var p model.Pilot
	var skills, certs, status, from string
	if err := row.Scan(&p.ID, &p.Name, &skills, &certs, &p.Location, &status, &p.CurrentAssignment, &from); err != nil {
		return model.Pilot{}, err
	}
	p.Skills = splitList(skills)
	p.Certifications = splitList(certs)
	p.Status = model.PilotStatus(status)
	p.AvailableFrom = model.ParseDate(from)
	return p, nil
}

func (s *Store) GetPilots(ctx context.Context) ([]model.Pilot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pilotCols+` FROM pilots ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var pilots []model.Pilot
	for rows.Next() {
		p, err := scanPilot(rows)
		if err != nil {
			return nil, err
		}
		pilots = append(pilots, p)
	}
	return pilots, rows.Err()
}

func (s *Store) GetPilot(ctx context.Context, id string) (model.Pilot, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pilotCols+` FROM pilots WHERE pilot_id = ?`, id)
	p, err := scanPilot(row)
	if err == sql.ErrNoRows {
		return model.Pilot{}, false, nil
	}
	if err != nil {
		return model.Pilot{}, false, err
	}
	return p, true, nil
}

const droneCols = `drone_id, model, capabilities, status, location, current_assignment, maintenance_due`

func scanDrone(row interface{ Scan(...any) error }) (model.Drone, error) {
	var d model.Drone
	var caps, status, due string
	if err := row.Scan(&d.ID, &d.Model, &caps, &status, &d.Location, &d.CurrentAssignment, &due); err != nil {
		return model.Drone{}, err
	}
	d.Capabilities = splitList(caps)
	d.Status = model.DroneStatus(status)
	d.MaintenanceDue = model.ParseDate(due)
	return d, nil
}

func (s *Store) GetDrones(ctx context.Context) ([]model.Drone, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+droneCols+` FROM drones ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var drones []model.Drone
	for rows.Next() {
		d, err := scanDrone(rows)
		if err != nil {
			return nil, err
		}
		drones = append(drones, d)
	}
	return drones, rows.Err()
}

func (s *Store) GetDrone(ctx context.Context, id string) (model.Drone, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+droneCols+` FROM drones WHERE drone_id = ?`, id)
	d, err := scanDrone(row)
	if err == sql.ErrNoRows {
		return model.Drone{}, false, nil
	}
	if err != nil {
		return model.Drone{}, false, err
	}
	return d, true, nil
}

const missionCols = `project_id, client, location, required_skills, required_certs, start_date, end_date, priority, assigned_pilot, assigned_drone`

func scanMission(row interface{ Scan(...any) error }) (model.Mission, error) {
	var m model.Mission
	var skills, certs, start, end, prio string
	if err := row.Scan(&m.ProjectID, &m.Client, &m.Location, &skills, &certs, &start, &end, &prio, &m.AssignedPilot, &m.AssignedDrone); err != nil {
		return model.Mission{}, err
	}
	m.RequiredSkills = splitList(skills)
	m.RequiredCerts = splitList(certs)
	m.StartDate = model.ParseDate(start)
	m.EndDate = model.ParseDate(end)
	m.Priority = model.ParsePriority(prio)
	return m, nil
}

func (s *Store) GetMissions(ctx context.Context) ([]model.Mission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+missionCols+` FROM missions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var missions []model.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

func (s *Store) GetMission(ctx context.Context, id string) (model.Mission, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+missionCols+` FROM missions WHERE project_id = ?`, id)
	m, err := scanMission(row)
	if err == sql.ErrNoRows {
		return model.Mission{}, false, nil
	}
	if err != nil {
		return model.Mission{}, false, err
	}
	return m, true, nil
}

func (s *Store) UpdatePilotStatus(ctx context.Context, id string, status model.PilotStatus, assignment string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pilots SET status = ?, current_assignment = ? WHERE pilot_id = ?`,
		string(status), assignment, id)
	if err != nil {
		return err
	}
	return requireHit(res, fmt.Sprintf("unknown pilot %q", id))
}

func (s *Store) UpdateDroneStatus(ctx context.Context, id string, status model.DroneStatus, assignment string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE drones SET status = ?, current_assignment = ? WHERE drone_id = ?`,
		string(status), assignment, id)
	if err != nil {
		return err
	}
	return requireHit(res, fmt.Sprintf("unknown drone %q", id))
}

// AssignToMission updates all three records inside one transaction. The
// rollback on failure means a PartialWriteError can never arise here.
func (s *Store) AssignToMission(ctx context.Context, projectID, pilotID, droneID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE missions SET assigned_pilot = ?, assigned_drone = ? WHERE project_id = ?`,
		pilotID, droneID, projectID)
	if err != nil {
		return err
	}
	if err := requireHit(res, fmt.Sprintf("unknown mission %q", projectID)); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE pilots SET status = ?, current_assignment = ? WHERE pilot_id = ?`,
		string(model.PilotAssigned), projectID, pilotID)
	if err != nil {
		return err
	}
	if err := requireHit(res, fmt.Sprintf("unknown pilot %q", pilotID)); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE drones SET status = ?, current_assignment = ? WHERE drone_id = ?`,
		string(model.DroneInUse), projectID, droneID)
	if err != nil {
		return err
	}
	if err := requireHit(res, fmt.Sprintf("unknown drone %q", droneID)); err != nil {
		return err
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func requireHit(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New(msg)
	}
	return nil
}

func splitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinList(vals []string) string {
	return strings.Join(vals, ", ")
}
