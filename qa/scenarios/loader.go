package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/divyarao54/drone-coordinator/core/model"
)

type PilotDef struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name"`
	Skills         []string   `yaml:"skills"`
	Certifications []string   `yaml:"certifications"`
	Location       string     `yaml:"location"`
	Status         string     `yaml:"status,omitempty"`
	Assignment     string     `yaml:"assignment,omitempty"`
	AvailableFrom  model.Date `yaml:"available_from,omitempty"`
}

func (p PilotDef) ToModel() model.Pilot {
	status := model.PilotStatus(p.Status)
	if p.Status == "" {
		status = model.PilotAvailable
	}
	return model.Pilot{
		ID:                p.ID,
		Name:              p.Name,
		Skills:            p.Skills,
		Certifications:    p.Certifications,
		Location:          p.Location,
		Status:            status,
		CurrentAssignment: p.Assignment,
		AvailableFrom:     p.AvailableFrom,
	}
}

type DroneDef struct {
	ID             string     `yaml:"id"`
	Model          string     `yaml:"model"`
	Capabilities   []string   `yaml:"capabilities"`
	Location       string     `yaml:"location"`
	Status         string     `yaml:"status,omitempty"`
	Assignment     string     `yaml:"assignment,omitempty"`
	MaintenanceDue model.Date `yaml:"maintenance_due,omitempty"`
}

func (d DroneDef) ToModel() model.Drone {
	status := model.DroneStatus(d.Status)
	if d.Status == "" {
		status = model.DroneAvailable
	}
	return model.Drone{
		ID:                d.ID,
		Model:             d.Model,
		Capabilities:      d.Capabilities,
		Status:            status,
		Location:          d.Location,
		CurrentAssignment: d.Assignment,
		MaintenanceDue:    d.MaintenanceDue,
	}
}

type MissionDef struct {
	ProjectID      string     `yaml:"id"`
	Client         string     `yaml:"client,omitempty"`
	Location       string     `yaml:"location"`
	RequiredSkills []string   `yaml:"required_skills,omitempty"`
	RequiredCerts  []string   `yaml:"required_certifications,omitempty"`
	StartDate      model.Date `yaml:"start"`
	EndDate        model.Date `yaml:"end"`
	Priority       string     `yaml:"priority,omitempty"`
	AssignedPilot  string     `yaml:"pilot,omitempty"`
	AssignedDrone  string     `yaml:"drone,omitempty"`
}

func (m MissionDef) ToModel() model.Mission {
	return model.Mission{
		ProjectID:      m.ProjectID,
		Client:         m.Client,
		Location:       m.Location,
		RequiredSkills: m.RequiredSkills,
		RequiredCerts:  m.RequiredCerts,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		Priority:       model.ParsePriority(m.Priority),
		AssignedPilot:  m.AssignedPilot,
		AssignedDrone:  m.AssignedDrone,
	}
}

type Expected struct {
	// Conflicts maps a conflict type to the number of findings the full
	// sweep must report. Types not listed must not appear at all.
	Conflicts map[string]int `yaml:"conflicts,omitempty"`
	// Pilots maps a mission to the pilot IDs MatchPilots must return,
	// best score first.
	Pilots map[string][]string `yaml:"pilots,omitempty"`
	// Drones maps a mission to the eligible drone IDs in fleet order.
	Drones map[string][]string `yaml:"drones,omitempty"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Pilots      []PilotDef   `yaml:"pilots"`
	Drones      []DroneDef   `yaml:"drones"`
	Missions    []MissionDef `yaml:"missions"`
	Expected    Expected     `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
