// Package missions exposes the mission book and per-mission candidate
// lookups over HTTP.
package missions

import (
	"fmt"
	"net/http"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/model"
)

// NewListHandler returns an HTTP handler exposing the mission book via
// GET /missions. Optional priority and location query parameters filter the
// result; priority takes the display labels (Low, Standard, High, Urgent).
func NewListHandler(store fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var priority model.Priority
		if s := r.URL.Query().Get("priority"); s != "" {
			priority = model.ParsePriority(s)
			if !priority.Valid() {
				respond.Error(w, http.StatusBadRequest, fmt.Sprintf("unknown priority %q", s))
				return
			}
		}
		missions, err := store.GetMissions(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		location := r.URL.Query().Get("location")
		out := []model.Mission{}
		for _, m := range missions {
			if priority != 0 && m.Priority != priority {
				continue
			}
			if location != "" && m.Location != location {
				continue
			}
			out = append(out, m)
		}
		respond.JSON(w, http.StatusOK, out)
	})
}

// NewGetHandler returns an HTTP handler exposing one mission via
// GET /missions/{id}.
func NewGetHandler(store fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		m, ok, err := store.GetMission(r.Context(), r.PathValue("id"))
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			respond.Error(w, http.StatusNotFound, "mission not found")
			return
		}
		respond.JSON(w, http.StatusOK, m)
	})
}

// NewAvailablePilotsHandler returns an HTTP handler exposing the ranked
// pilot candidates for a mission via GET /missions/{id}/available-pilots.
// Each entry pairs the pilot with the match score that ranked them.
func NewAvailablePilotsHandler(store fleet.Store, engine matching.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		m, ok, err := store.GetMission(r.Context(), r.PathValue("id"))
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			respond.Error(w, http.StatusNotFound, "mission not found")
			return
		}
		pilots, err := store.GetPilots(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		matches := engine.MatchPilots(m, pilots)
		if matches == nil {
			matches = []matching.PilotMatch{}
		}
		respond.JSON(w, http.StatusOK, matches)
	})
}

// NewAvailableDronesHandler returns an HTTP handler exposing the eligible
// drones for a mission via GET /missions/{id}/available-drones, in fleet
// order.
func NewAvailableDronesHandler(store fleet.Store, engine matching.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		m, ok, err := store.GetMission(r.Context(), r.PathValue("id"))
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			respond.Error(w, http.StatusNotFound, "mission not found")
			return
		}
		drones, err := store.GetDrones(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		eligible := engine.MatchDrones(m, drones)
		if eligible == nil {
			eligible = []model.Drone{}
		}
		respond.JSON(w, http.StatusOK, eligible)
	})
}
