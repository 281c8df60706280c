package model

import (
	"testing"
	"time"
)

func TestParsePriorityRanks(t *testing.T) {
	cases := map[string]Priority{
		"Urgent":   PriorityUrgent,
		"high":     PriorityHigh,
		" Standard ": PriorityStandard,
		"LOW":      PriorityLow,
		"critical": 0,
		"":         0,
	}
	for in, want := range cases {
		if got := ParsePriority(in); got != want {
			t.Fatalf("ParsePriority(%q) = %v, want %v", in, got, want)
		}
	}
	if PriorityUrgent.Rank() != 4 || PriorityLow.Rank() != 1 {
		t.Fatal("priority ranks must be Urgent=4 .. Low=1")
	}
}

func TestPriorityOrdering(t *testing.T) {
	if !(PriorityUrgent > PriorityHigh && PriorityHigh > PriorityStandard && PriorityStandard > PriorityLow) {
		t.Fatal("priorities must order Urgent > High > Standard > Low")
	}
	var unknown Priority
	if unknown >= PriorityLow {
		t.Fatal("unknown priority must rank below Low")
	}
}

func TestMissionAssigned(t *testing.T) {
	m := Mission{ProjectID: "PRJ001", AssignedPilot: "P001"}
	if m.Assigned() {
		t.Fatal("mission with only a pilot is not fully assigned")
	}
	m.AssignedDrone = "D001"
	if !m.Assigned() {
		t.Fatal("mission with both refs is assigned")
	}
}

func TestMissionValidate(t *testing.T) {
	ok := Mission{
		ProjectID: "PRJ010",
		StartDate: NewDate(2026, time.May, 1),
		EndDate:   NewDate(2026, time.May, 9),
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := ok
	bad.ProjectID = "PR010"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected project id format error")
	}
	inverted := ok
	inverted.EndDate = NewDate(2026, time.April, 1)
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected inverted date range error")
	}
}

func TestPilotValidate(t *testing.T) {
	p := Pilot{ID: "P001", Name: "Arjun", Status: PilotAvailable}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Status = "Busy"
	if err := p.Validate(); err == nil {
		t.Fatal("expected unknown status error")
	}
	p = Pilot{ID: "P1", Name: "X", Status: PilotAvailable}
	if err := p.Validate(); err == nil {
		t.Fatal("expected pilot id format error")
	}
}

func TestDroneValidate(t *testing.T) {
	d := Drone{ID: "D003", Status: DroneInUse}
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.ID = "DX3"
	if err := d.Validate(); err == nil {
		t.Fatal("expected drone id format error")
	}
}
