// Package drones exposes the drone fleet inventory over HTTP.
package drones

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/events"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/model"
	"github.com/divyarao54/drone-coordinator/internal/eventbus"
)

// NewListHandler returns an HTTP handler exposing the fleet via
// GET /drones. Optional status and location query parameters filter the
// result.
func NewListHandler(store fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		drones, err := store.GetDrones(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		status := r.URL.Query().Get("status")
		location := r.URL.Query().Get("location")
		out := []model.Drone{}
		for _, d := range drones {
			if status != "" && string(d.Status) != status {
				continue
			}
			if location != "" && d.Location != location {
				continue
			}
			out = append(out, d)
		}
		respond.JSON(w, http.StatusOK, out)
	})
}

// NewGetHandler returns an HTTP handler exposing one drone via
// GET /drones/{id}.
func NewGetHandler(store fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		d, ok, err := store.GetDrone(r.Context(), r.PathValue("id"))
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			respond.Error(w, http.StatusNotFound, "drone not found")
			return
		}
		respond.JSON(w, http.StatusOK, d)
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// NewStatusHandler returns an HTTP handler updating a drone's fleet status
// via PUT /drones/{id}/status, used to pull an airframe into Maintenance or
// return it to service. The current assignment field is preserved.
func NewStatusHandler(store fleet.Store, bus eventbus.EventBus) http.Handler {
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
		status := model.DroneStatus(req.Status)
		if !status.Valid() {
			respond.Error(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
			return
		}
		id := r.PathValue("id")
		d, ok, err := store.GetDrone(r.Context(), id)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			respond.Error(w, http.StatusNotFound, "drone not found")
			return
		}
		if err := store.UpdateDroneStatus(r.Context(), id, status, d.CurrentAssignment); err != nil {
			respond.Error(w, http.StatusBadGateway, err.Error())
			return
		}
		if bus != nil {
			bus.Publish(events.DroneStatusEvent{DroneID: id, Status: status, Time: time.Now().UTC()})
		}
		respond.JSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("drone %s status updated to %s", id, status),
		})
	})
}
