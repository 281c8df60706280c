package system

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/model"
)

func TestInfoHandler(t *testing.T) {
	h := NewInfoHandler("1.2.3")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out info
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Version != "1.2.3" || out.Status != "operational" {
		t.Fatalf("unexpected banner %+v", out)
	}
}

func TestSyncHandler_DropsCache(t *testing.T) {
	inner := fleet.NewMemoryStore([]model.Pilot{
		{ID: "P001", Name: "Asha", Status: model.PilotAvailable},
	}, nil, nil)
	cached := fleet.NewCachedStore(inner, time.Hour)

	// Warm the cache, then change the backing store underneath it.
	if _, err := cached.GetPilots(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if err := inner.UpdatePilotStatus(context.Background(), "P001", model.PilotOnLeave, ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	stale, err := cached.GetPilots(context.Background())
	if err != nil {
		t.Fatalf("stale read: %v", err)
	}
	if stale[0].Status != model.PilotAvailable {
		t.Fatalf("cache should still serve the old status, got %s", stale[0].Status)
	}

	h := NewSyncHandler(cached)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/sync", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}

	fresh, err := cached.GetPilots(context.Background())
	if err != nil {
		t.Fatalf("fresh read: %v", err)
	}
	if fresh[0].Status != model.PilotOnLeave {
		t.Fatalf("sync did not drop the cache, got %s", fresh[0].Status)
	}
}

func TestSyncHandler_PlainStore(t *testing.T) {
	h := NewSyncHandler(fleet.NewMemoryStore(nil, nil, nil))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/sync", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
}
