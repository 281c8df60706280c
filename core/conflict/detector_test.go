package conflict

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/model"
)

func fitPilot() model.Pilot {
	return model.Pilot{
		ID: "P001", Name: "Arjun", Location: "Pune",
		Skills:         []string{"mapping", "thermal"},
		Certifications: []string{"DGCA"},
		Status:         model.PilotAvailable,
	}
}

func fitDrone() model.Drone {
	return model.Drone{ID: "D001", Location: "Pune", Status: model.DroneAvailable}
}

func surveyMission() model.Mission {
	return model.Mission{
		ProjectID: "PRJ001", Location: "Pune",
		RequiredSkills: []string{"mapping", "thermal"},
		RequiredCerts:  []string{"DGCA"},
		StartDate:      model.NewDate(2026, time.March, 10),
		EndDate:        model.NewDate(2026, time.March, 20),
		Priority:       model.PriorityHigh,
	}
}

func countByType(conflicts []Conflict) map[Type]int {
	counts := make(map[Type]int)
	for _, c := range conflicts {
		counts[c.Type]++
	}
	return counts
}

func TestCheckAssignmentClean(t *testing.T) {
	p, d := fitPilot(), fitDrone()
	if got := CheckAssignment(surveyMission(), &p, &d); len(got) != 0 {
		t.Fatalf("expected no conflicts, got %+v", got)
	}
}

func TestCheckAssignmentNilEntities(t *testing.T) {
	p := fitPilot()
	if got := CheckAssignment(surveyMission(), &p, nil); len(got) != 0 {
		t.Fatalf("nil drone must yield no conflicts, got %+v", got)
	}
	if got := CheckAssignment(surveyMission(), nil, nil); len(got) != 0 {
		t.Fatalf("nil pilot must yield no conflicts, got %+v", got)
	}
}

func TestCheckAssignmentAccumulatesEveryViolation(t *testing.T) {
	m := surveyMission()

	p := fitPilot()
	p.Skills = []string{"mapping"}
	p.Certifications = nil
	p.Location = "Delhi"
	p.AvailableFrom = model.NewDate(2026, time.March, 12)

	d := fitDrone()
	d.Location = "Mumbai"
	d.MaintenanceDue = model.NewDate(2026, time.March, 15)

	got := CheckAssignment(m, &p, &d)
	want := map[Type]int{
		TypeSkillMismatch:         1,
		TypeCertificationMismatch: 1,
		TypeLocationMismatch:      2,
		TypeMaintenanceConflict:   1,
		TypeAvailabilityConflict:  1,
	}
	if !reflect.DeepEqual(countByType(got), want) {
		t.Fatalf("got %+v, want %+v", countByType(got), want)
	}
	if got[0].Type != TypeSkillMismatch || !strings.Contains(got[0].Message, "thermal") {
		t.Fatalf("skill conflict must name the missing skill: %+v", got[0])
	}
}

func TestCheckAssignmentSeverities(t *testing.T) {
	m := surveyMission()
	p := fitPilot()
	p.Location = "Delhi"
	p.Certifications = nil
	d := fitDrone()

	for _, c := range CheckAssignment(m, &p, &d) {
		switch c.Type {
		case TypeLocationMismatch:
			if c.Severity != SeverityMedium {
				t.Fatalf("location mismatch must be medium, got %s", c.Severity)
			}
		case TypeCertificationMismatch:
			if c.Severity != SeverityHigh {
				t.Fatalf("certification mismatch must be high, got %s", c.Severity)
			}
		}
	}
}

func TestCheckAssignmentMaintenanceBoundary(t *testing.T) {
	m := surveyMission()
	p := fitPilot()

	onEnd := fitDrone()
	onEnd.MaintenanceDue = m.EndDate
	if got := CheckAssignment(m, &p, &onEnd); countByType(got)[TypeMaintenanceConflict] != 1 {
		t.Fatalf("maintenance due on the end date must conflict, got %+v", got)
	}

	afterEnd := fitDrone()
	afterEnd.MaintenanceDue = m.EndDate.AddDays(1)
	if got := CheckAssignment(m, &p, &afterEnd); len(got) != 0 {
		t.Fatalf("maintenance after the mission must not conflict, got %+v", got)
	}
}

func TestCheckAssignmentAvailabilityBoundary(t *testing.T) {
	m := surveyMission()
	d := fitDrone()

	onStart := fitPilot()
	onStart.AvailableFrom = m.StartDate
	if got := CheckAssignment(m, &onStart, &d); len(got) != 0 {
		t.Fatalf("availability on the start date is fine, got %+v", got)
	}

	dayLate := fitPilot()
	dayLate.AvailableFrom = m.StartDate.AddDays(1)
	if got := CheckAssignment(m, &dayLate, &d); countByType(got)[TypeAvailabilityConflict] != 1 {
		t.Fatalf("availability after the start must conflict, got %+v", got)
	}
}

func detectorFixture(pilots []model.Pilot, drones []model.Drone, missions []model.Mission) *Detector {
	d := NewDetector(fleet.NewMemoryStore(pilots, drones, missions))
	d.now = func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return d
}

func TestDetectAllDoubleBooking(t *testing.T) {
	m1 := surveyMission()
	m1.AssignedPilot, m1.AssignedDrone = "P001", "D001"

	m2 := surveyMission()
	m2.ProjectID = "PRJ002"
	// Starts on m1's last day: inclusive boundaries still collide.
	m2.StartDate = m1.EndDate
	m2.EndDate = m1.EndDate.AddDays(10)
	m2.AssignedPilot, m2.AssignedDrone = "P001", "D002"

	d2 := fitDrone()
	d2.ID = "D002"
	det := detectorFixture([]model.Pilot{fitPilot()}, []model.Drone{fitDrone(), d2}, []model.Mission{m1, m2})

	got, err := det.DetectAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	counts := countByType(got)
	if counts[TypeDoubleBooking] != 1 {
		t.Fatalf("expected one pilot double booking, got %+v", got)
	}
	for _, c := range got {
		if c.Type == TypeDoubleBooking {
			if c.Severity != SeverityCritical {
				t.Fatalf("double booking must be critical, got %s", c.Severity)
			}
			if !strings.Contains(c.Message, "PRJ001") || !strings.Contains(c.Message, "PRJ002") {
				t.Fatalf("message must name both missions: %s", c.Message)
			}
		}
	}
}

func TestDetectAllKeepsDuplicateFindings(t *testing.T) {
	m := surveyMission()
	m.AssignedPilot, m.AssignedDrone = "P001", "D001"

	p := fitPilot()
	p.Certifications = nil // cert gap: flagged per-assignment and by the scan
	p.Location = "Delhi"   // location gap: same

	det := detectorFixture([]model.Pilot{p}, []model.Drone{fitDrone()}, []model.Mission{m})
	got, err := det.DetectAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	counts := countByType(got)
	if counts[TypeCertificationMismatch] != 2 {
		t.Fatalf("certification finding must appear in both passes, got %+v", counts)
	}
	if counts[TypeLocationMismatch] != 2 {
		t.Fatalf("location finding must appear in both passes, got %+v", counts)
	}
}

func TestDetectAllIsIdempotent(t *testing.T) {
	m := surveyMission()
	m.AssignedPilot, m.AssignedDrone = "P001", "D001"
	p := fitPilot()
	p.Certifications = nil

	det := detectorFixture([]model.Pilot{p}, []model.Drone{fitDrone()}, []model.Mission{m})
	first, err := det.DetectAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := det.DetectAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated sweeps must agree:\n%+v\n%+v", first, second)
	}
}

func TestDetectAllSkipsUnknownRefs(t *testing.T) {
	m := surveyMission()
	m.AssignedPilot, m.AssignedDrone = "P999", "D999"

	det := detectorFixture([]model.Pilot{fitPilot()}, []model.Drone{fitDrone()}, []model.Mission{m})
	got, err := det.DetectAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("unknown refs must be skipped silently, got %+v", got)
	}
}

func TestMaintenanceScanLabels(t *testing.T) {
	m := surveyMission()
	m.AssignedPilot, m.AssignedDrone = "P001", "D001"

	d := fitDrone()
	d.MaintenanceDue = model.NewDate(2026, time.March, 15)

	det := detectorFixture([]model.Pilot{fitPilot()}, []model.Drone{d}, []model.Mission{m})

	// Fixture clock is 2026-03-01, fourteen days before the due date.
	got, err := det.DetectAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range got {
		if c.Type == TypeMaintenanceConflict && strings.Contains(c.Message, "during maintenance period") {
			found = true
			if !strings.Contains(c.Message, "due in 14 days") {
				t.Fatalf("expected due-in label, got %s", c.Message)
			}
		}
	}
	if !found {
		t.Fatal("maintenance scan finding missing")
	}

	det.now = func() time.Time { return time.Date(2026, time.March, 20, 8, 0, 0, 0, time.UTC) }
	got, err = det.DetectAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	found = false
	for _, c := range got {
		if c.Type == TypeMaintenanceConflict && strings.Contains(c.Message, "OVERDUE") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OVERDUE label after the due date, got %+v", got)
	}
}

func TestCheckPilot(t *testing.T) {
	m1 := surveyMission()
	m1.AssignedPilot = "P001"
	m2 := surveyMission()
	m2.ProjectID = "PRJ002"
	m2.AssignedPilot = "P001"

	det := detectorFixture([]model.Pilot{fitPilot()}, nil, []model.Mission{m1, m2})
	got, err := det.CheckPilot(context.Background(), "P001")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Type != TypeDoubleBooking {
		t.Fatalf("expected one double booking, got %+v", got)
	}

	got, err = det.CheckPilot(context.Background(), "P404")
	if err != nil || len(got) != 0 {
		t.Fatalf("unknown pilot must yield nothing, got %+v err %v", got, err)
	}
}
