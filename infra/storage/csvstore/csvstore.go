// Package csvstore persists the fleet in the three spreadsheet-shaped CSV
// files the operations team exchanges: pilot_roster.csv, drone_fleet.csv and
// missions.csv. Reads parse the whole file on every call; mutations rewrite
// the file under a lock, so concurrent writers are last-write-wins at file
// granularity.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/divyarao54/drone-coordinator/core/fleet"
	corelogger "github.com/divyarao54/drone-coordinator/core/logger"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/infra/logger"
)

// Paths locates the three fleet files.
type Paths struct {
	Pilots   string
	Drones   string
	Missions string
}

// Store implements fleet.Store on top of the CSV files. Malformed rows are
// logged and skipped rather than failing the whole load, mirroring how the
// sheets they come from tolerate stray cells.
type Store struct {
	mu    sync.Mutex
	paths Paths
	log   corelogger.Logger
}

// Canonical column orders used when writing files back. Reads resolve
// columns by header name, so hand-edited files with reordered columns
// still load.
var (
	pilotHeader   = []string{"pilot_id", "name", "skills", "certifications", "location", "available_from", "status", "current_assignment"}
	droneHeader   = []string{"drone_id", "model", "capabilities", "status", "location", "current_assignment", "maintenance_due"}
	missionHeader = []string{"project_id", "client", "location", "required_skills", "required_certs", "start_date", "end_date", "priority", "assigned_pilot", "assigned_drone"}
)

// New builds a Store over the given files. All three must already exist.
func New(paths Paths, log corelogger.Logger) (*Store, error) {
	if log == nil {
		log = logger.New("csv-store")
	}
	for _, p := range []string{paths.Pilots, paths.Drones, paths.Missions} {
		if p == "" {
			return nil, fmt.Errorf("csvstore: all three file paths are required")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("csvstore: %w", err)
		}
	}
	return &Store{paths: paths, log: log}, nil
}

func (s *Store) GetPilots(ctx context.Context) ([]model.Pilot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPilots()
}

func (s *Store) GetDrones(ctx context.Context) ([]model.Drone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDrones()
}

func (s *Store) GetMissions(ctx context.Context) ([]model.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMissions()
}

func (s *Store) GetPilot(ctx context.Context, id string) (model.Pilot, bool, error) {
	pilots, err := s.GetPilots(ctx)
	if err != nil {
		return model.Pilot{}, false, err
	}
	for _, p := range pilots {
		if p.ID == id {
			return p, true, nil
		}
	}
	return model.Pilot{}, false, nil
}

func (s *Store) GetDrone(ctx context.Context, id string) (model.Drone, bool, error) {
	drones, err := s.GetDrones(ctx)
	if err != nil {
		return model.Drone{}, false, err
	}
	for _, d := range drones {
		if d.ID == id {
			return d, true, nil
		}
	}
	return model.Drone{}, false, nil
}

func (s *Store) GetMission(ctx context.Context, id string) (model.Mission, bool, error) {
	missions, err := s.GetMissions(ctx)
	if err != nil {
		return model.Mission{}, false, err
	}
	for _, m := range missions {
		if m.ProjectID == id {
			return m, true, nil
		}
	}
	return model.Mission{}, false, nil
}

func (s *Store) UpdatePilotStatus(ctx context.Context, id string, status model.PilotStatus, assignment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pilots, err := s.loadPilots()
	if err != nil {
		return err
	}
	found := false
	for i := range pilots {
		if pilots[i].ID == id {
			pilots[i].Status = status
			pilots[i].CurrentAssignment = assignment
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown pilot %q", id)
	}
	return s.writePilots(pilots)
}

func (s *Store) UpdateDroneStatus(ctx context.Context, id string, status model.DroneStatus, assignment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drones, err := s.loadDrones()
	if err != nil {
		return err
	}
	found := false
	for i := range drones {
		if drones[i].ID == id {
			drones[i].Status = status
			drones[i].CurrentAssignment = assignment
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown drone %q", id)
	}
	return s.writeDrones(drones)
}

// AssignToMission rewrites missions.csv, then pilot_roster.csv, then
// drone_fleet.csv. A failure between files is reported as a
// PartialWriteError; files already rewritten stay rewritten.
func (s *Store) AssignToMission(ctx context.Context, projectID, pilotID, droneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	missions, err := s.loadMissions()
	if err != nil {
		return err
	}
	pilots, err := s.loadPilots()
	if err != nil {
		return err
	}
	drones, err := s.loadDrones()
	if err != nil {
		return err
	}

	mi, pi, di := -1, -1, -1
	for i := range missions {
		if missions[i].ProjectID == projectID {
			mi = i
			break
		}
	}
	for i := range pilots {
		if pilots[i].ID == pilotID {
			pi = i
			break
		}
	}
	for i := range drones {
		if drones[i].ID == droneID {
			di = i
			break
		}
	}
	if mi < 0 {
		return fmt.Errorf("unknown mission %q", projectID)
	}
	if pi < 0 {
		return fmt.Errorf("unknown pilot %q", pilotID)
	}
	if di < 0 {
		return fmt.Errorf("unknown drone %q", droneID)
	}

	var applied []string
	fail := func(step string, err error) error {
		return &fleet.PartialWriteError{Op: "assign " + projectID, Applied: applied, Step: step, Err: err}
	}

	missions[mi].AssignedPilot = pilotID
	missions[mi].AssignedDrone = droneID
	if err := s.writeMissions(missions); err != nil {
		return fail(fleet.StepMission, err)
	}
	applied = append(applied, fleet.StepMission)

	pilots[pi].Status = model.PilotAssigned
	pilots[pi].CurrentAssignment = projectID
	if err := s.writePilots(pilots); err != nil {
		return fail(fleet.StepPilot, err)
	}
	applied = append(applied, fleet.StepPilot)

	drones[di].Status = model.DroneInUse
	drones[di].CurrentAssignment = projectID
	if err := s.writeDrones(drones); err != nil {
		return fail(fleet.StepDrone, err)
	}
	return nil
}

func (s *Store) loadPilots() ([]model.Pilot, error) {
	idx, rows, err := readTable(s.paths.Pilots)
	if err != nil {
		return nil, err
	}
	var pilots []model.Pilot
	for i, row := range rows {
		status := cell(row, idx, "status")
		if status == "" {
			status = string(model.PilotAvailable)
		}
		p := model.Pilot{
			ID:                cell(row, idx, "pilot_id"),
			Name:              cell(row, idx, "name"),
			Skills:            splitList(cell(row, idx, "skills")),
			Certifications:    splitList(cell(row, idx, "certifications")),
			Location:          cell(row, idx, "location"),
			Status:            model.PilotStatus(status),
			CurrentAssignment: cell(row, idx, "current_assignment"),
			AvailableFrom:     model.ParseDate(cell(row, idx, "available_from")),
		}
		if err := p.Validate(); err != nil {
			s.log.Warnf("%s row %d skipped: %v", s.paths.Pilots, i+2, err)
			continue
		}
		pilots = append(pilots, p)
	}
	return pilots, nil
}

func (s *Store) loadDrones() ([]model.Drone, error) {
	idx, rows, err := readTable(s.paths.Drones)
	if err != nil {
		return nil, err
	}
	var drones []model.Drone
	for i, row := range rows {
		status := cell(row, idx, "status")
		if status == "" {
			status = string(model.DroneAvailable)
		}
		d := model.Drone{
			ID:                cell(row, idx, "drone_id"),
			Model:             cell(row, idx, "model"),
			Capabilities:      splitList(cell(row, idx, "capabilities")),
			Status:            model.DroneStatus(status),
			Location:          cell(row, idx, "location"),
			CurrentAssignment: cell(row, idx, "current_assignment"),
			MaintenanceDue:    model.ParseDate(cell(row, idx, "maintenance_due")),
		}
		if err := d.Validate(); err != nil {
			s.log.Warnf("%s row %d skipped: %v", s.paths.Drones, i+2, err)
			continue
		}
		drones = append(drones, d)
	}
	return drones, nil
}

func (s *Store) loadMissions() ([]model.Mission, error) {
	idx, rows, err := readTable(s.paths.Missions)
	if err != nil {
		return nil, err
	}
	var missions []model.Mission
	for i, row := range rows {
		m := model.Mission{
			ProjectID:      cell(row, idx, "project_id"),
			Client:         cell(row, idx, "client"),
			Location:       cell(row, idx, "location"),
			RequiredSkills: splitList(cell(row, idx, "required_skills")),
			RequiredCerts:  splitList(cell(row, idx, "required_certs")),
			StartDate:      model.ParseDate(cell(row, idx, "start_date")),
			EndDate:        model.ParseDate(cell(row, idx, "end_date")),
			Priority:       model.ParsePriority(cell(row, idx, "priority")),
			AssignedPilot:  cell(row, idx, "assigned_pilot"),
			AssignedDrone:  cell(row, idx, "assigned_drone"),
		}
		if err := m.Validate(); err != nil {
			s.log.Warnf("%s row %d skipped: %v", s.paths.Missions, i+2, err)
			continue
		}
		missions = append(missions, m)
	}
	return missions, nil
}

func (s *Store) writePilots(pilots []model.Pilot) error {
	return writePilotsFile(s.paths.Pilots, pilots)
}

func (s *Store) writeDrones(drones []model.Drone) error {
	return writeDronesFile(s.paths.Drones, drones)
}

func (s *Store) writeMissions(missions []model.Mission) error {
	return writeMissionsFile(s.paths.Missions, missions)
}

// WriteFleet creates or replaces the three fleet files with the given
// records. Seeding tools use it to lay down a data set a Store can open.
func WriteFleet(paths Paths, pilots []model.Pilot, drones []model.Drone, missions []model.Mission) error {
	if err := writePilotsFile(paths.Pilots, pilots); err != nil {
		return err
	}
	if err := writeDronesFile(paths.Drones, drones); err != nil {
		return err
	}
	return writeMissionsFile(paths.Missions, missions)
}

func writePilotsFile(path string, pilots []model.Pilot) error {
	rows := make([][]string, 0, len(pilots))
	for _, p := range pilots {
		rows = append(rows, []string{
			p.ID, p.Name, joinList(p.Skills), joinList(p.Certifications),
			p.Location, p.AvailableFrom.String(), string(p.Status), p.CurrentAssignment,
		})
	}
	return writeTable(path, pilotHeader, rows)
}

func writeDronesFile(path string, drones []model.Drone) error {
	rows := make([][]string, 0, len(drones))
	for _, d := range drones {
		rows = append(rows, []string{
			d.ID, d.Model, joinList(d.Capabilities), string(d.Status),
			d.Location, d.CurrentAssignment, d.MaintenanceDue.String(),
		})
	}
	return writeTable(path, droneHeader, rows)
}

func writeMissionsFile(path string, missions []model.Mission) error {
	rows := make([][]string, 0, len(missions))
	for _, m := range missions {
		rows = append(rows, []string{
			m.ProjectID, m.Client, m.Location, joinList(m.RequiredSkills),
			joinList(m.RequiredCerts), m.StartDate.String(), m.EndDate.String(),
			m.Priority.String(), m.AssignedPilot, m.AssignedDrone,
		})
	}
	return writeTable(path, missionHeader, rows)
}

// readTable returns a header-name index and the data rows. Rows may be
// ragged; missing cells read as empty.
func readTable(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("read %s: missing header row", path)
	}
	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[strings.TrimSpace(name)] = i
	}
	return idx, records[1:], nil
}

func writeTable(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// splitList parses a comma-separated cell into trimmed, non-empty values.
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
