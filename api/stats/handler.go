// Package stats exposes the fleet head count and match-score statistics
// over HTTP.
package stats

import (
	"net/http"
	"time"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/fleet"
	"github.com/divyarao54/drone-coordinator/core/matching"
	"github.com/divyarao54/drone-coordinator/core/report"
)

type statsResponse struct {
	Fleet  report.FleetStats `json:"fleet"`
	Scores report.ScoreStats `json:"match_scores"`
}

// NewStatsHandler returns an HTTP handler exposing operational statistics
// via GET /stats: available head counts, active and pending missions, and
// the match-score distribution over the unassigned mission book.
func NewStatsHandler(store fleet.Store, engine matching.Engine) http.Handler {
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
		drones, err := store.GetDrones(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		missions, err := store.GetMissions(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, statsResponse{
			Fleet:  report.Stats(pilots, drones, missions, time.Now().UTC()),
			Scores: report.ScoreDistribution(engine, missions, pilots),
		})
	})
}
