// Package pilots exposes the pilot roster over HTTP.
package pilots

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/conflict"
	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// NewListHandler returns an HTTP handler exposing the roster via
// GET /pilots. Optional status and location query parameters filter the
// result.
func NewListHandler(store fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		pilots, err := store.GetPilots(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		status := r.URL.Query().Get("status")
		location := r.URL.Query().Get("location")
		out := []model.Pilot{}
		for _, p := range pilots {
			if status != "" && string(p.Status) != status {
				continue
			}
			if location != "" && p.Location != location {
				continue
			}
			out = append(out, p)
		}
		respond.JSON(w, http.StatusOK, out)
	})
}

// NewGetHandler returns an HTTP handler exposing one pilot via
// GET /pilots/{id}.
func NewGetHandler(store fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		p, ok, err := store.GetPilot(r.Context(), r.PathValue("id"))
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			respond.Error(w, http.StatusNotFound, "pilot not found")
			return
		}
		respond.JSON(w, http.StatusOK, p)
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Message   string              `json:"message"`
	Conflicts []conflict.Conflict `json:"conflicts"`
}

// NewStatusHandler returns an HTTP handler updating a pilot's roster status
// via PUT /pilots/{id}/status. The response carries the conflicts the new
// status creates, so a pilot going on leave mid-mission is flagged
// immediately. The current assignment field is preserved across the update.
func NewStatusHandler(store fleet.Store, det *conflict.Detector, bus eventbus.EventBus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		status := model.PilotStatus(req.Status)
		if !status.Valid() {
			respond.Error(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
			return
		}
		id := r.PathValue("id")
		p, ok, err := store.GetPilot(r.Context(), id)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			respond.Error(w, http.StatusNotFound, "pilot not found")
			return
		}
		if err := store.UpdatePilotStatus(r.Context(), id, status, p.CurrentAssignment); err != nil {
			respond.Error(w, http.StatusBadGateway, err.Error())
			return
		}
		if bus != nil {
			bus.Publish(events.PilotStatusEvent{PilotID: id, Status: status, Time: time.Now().UTC()})
		}
		conflicts := []conflict.Conflict{}
		if det != nil {
			found, err := det.CheckPilot(r.Context(), id)
			if err != nil {
				respond.Error(w, http.StatusInternalServerError, err.Error())
				return
			}
			conflicts = append(conflicts, found...)
		}
		respond.JSON(w, http.StatusOK, statusResponse{
			Message:   fmt.Sprintf("pilot %s status updated to %s", id, status),
			Conflicts: conflicts,
		})
	})
}
