// Package assignments exposes the coordinator's assignment operations and
// audit trail over HTTP.
package assignments

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/assignment"
	"github.com/divyarao54/drone-coordinator/core/conflict"
)

type assignRequest struct {
	ProjectID string `json:"project_id"`
	PilotID   string `json:"pilot_id"`
	DroneID   string `json:"drone_id"`
}

type assignResponse struct {
	Message    string                `json:"message"`
	Assignment assignment.Assignment `json:"assignment"`
}

type conflictResponse struct {
	Error     string              `json:"error"`
	Conflicts []conflict.Conflict `json:"conflicts"`
}

// NewAssignHandler returns an HTTP handler committing an assignment via
// POST /assign with body {project_id, pilot_id, drone_id}. Outcomes map to
// status codes: 200 committed, 404 unknown entity, 409 blocked by conflicts
// (the body lists them), 502 store write failure.
func NewAssignHandler(coord *assignment.Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req assignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ProjectID == "" || req.PilotID == "" || req.DroneID == "" {
			respond.Error(w, http.StatusBadRequest, "project_id, pilot_id and drone_id are required")
			return
		}
		a, err := coord.Assign(r.Context(), req.ProjectID, req.PilotID, req.DroneID)
		if err != nil {
			writeAssignError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, assignResponse{
			Message:    fmt.Sprintf("assigned %s and %s to %s", a.PilotID, a.DroneID, a.ProjectID),
			Assignment: a,
		})
	})
}

type urgentRequest struct {
	ProjectID string `json:"project_id"`
}

// NewUrgentHandler returns an HTTP handler covering an urgent mission via
// POST /urgent-reassign with body {project_id}. The response carries either
// the committed assignment or the ranked delay suggestions; 409 means
// neither exists.
func NewUrgentHandler(coord *assignment.Coordinator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req urgentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ProjectID == "" {
			respond.Error(w, http.StatusBadRequest, "project_id is required")
			return
		}
		out, err := coord.ReassignUrgent(r.Context(), req.ProjectID)
		if errors.Is(err, assignment.ErrNoOptions) {
			respond.Error(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			writeAssignError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	})
}

func writeAssignError(w http.ResponseWriter, err error) {
	var nf *assignment.NotFoundError
	if errors.As(err, &nf) {
		respond.Error(w, http.StatusNotFound, nf.Error())
		return
	}
	var ce *assignment.ConflictError
	if errors.As(err, &ce) {
		respond.JSON(w, http.StatusConflict, conflictResponse{
			Error:     "assignment conflicts detected",
			Conflicts: ce.Conflicts,
		})
		return
	}
	var pe *assignment.PersistenceError
	if errors.As(err, &pe) {
		respond.Error(w, http.StatusBadGateway, pe.Error())
		return
	}
	respond.Error(w, http.StatusInternalServerError, err.Error())
}
