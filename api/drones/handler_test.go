package drones

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

func fleetStore() *fleet.MemoryStore {
	drones := []model.Drone{
		{ID: "D001", Model: "Matrice 350", Status: model.DroneAvailable, Location: "Pune"},
		{ID: "D002", Model: "Mavic 3E", Status: model.DroneInUse, Location: "Mumbai", CurrentAssignment: "PRJ001"},
	}
	return fleet.NewMemoryStore(nil, drones, nil)
}

func TestListHandler_Filters(t *testing.T) {
	h := NewListHandler(fleetStore())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/drones", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []model.Drone
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 drones, got %d", len(out))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/drones?status=In+Use&location=Mumbai", nil))
	out = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "D002" {
		t.Fatalf("filter bad %#v", out)
	}
}

func TestListHandler_Empty(t *testing.T) {
	h := NewListHandler(fleet.NewMemoryStore(nil, nil, nil))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/drones", nil))
	if rr.Body.String() != "[]\n" {
		t.Fatalf("expected empty array got %s", rr.Body.String())
	}
}

func TestGetHandler(t *testing.T) {
	h := NewGetHandler(fleetStore())

	req := httptest.NewRequest("GET", "/drones/D001", nil)
	req.SetPathValue("id", "D001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var d model.Drone
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.ID != "D001" || d.Model != "Matrice 350" {
		t.Fatalf("unexpected drone %+v", d)
	}

	req = httptest.NewRequest("GET", "/drones/D999", nil)
	req.SetPathValue("id", "D999")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	store := fleetStore()
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	h := NewStatusHandler(store, bus)

	req := httptest.NewRequest("PUT", "/drones/D001/status", strings.NewReader(`{"status":"Maintenance"}`))
	req.SetPathValue("id", "D001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}

	d, ok, err := store.GetDrone(context.Background(), "D001")
	if err != nil || !ok {
		t.Fatalf("reload drone: ok=%v err=%v", ok, err)
	}
	if d.Status != model.DroneMaintenance {
		t.Fatalf("status not persisted: %s", d.Status)
	}

	select {
	case ev := <-sub:
		se, ok := ev.(events.DroneStatusEvent)
		if !ok {
			t.Fatalf("unexpected event %T", ev)
		}
		if se.DroneID != "D001" || se.Status != model.DroneMaintenance {
			t.Fatalf("unexpected status event %+v", se)
		}
	case <-time.After(time.Second):
		t.Fatal("no status event published")
	}
}

func TestStatusHandler_Validation(t *testing.T) {
	h := NewStatusHandler(fleetStore(), nil)

	req := httptest.NewRequest("PUT", "/drones/D001/status", strings.NewReader(`{"status":"Broken"}`))
	req.SetPathValue("id", "D001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	req = httptest.NewRequest("PUT", "/drones/D999/status", strings.NewReader(`{"status":"Available"}`))
	req.SetPathValue("id", "D999")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}
