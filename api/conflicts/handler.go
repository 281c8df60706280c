// Package conflicts exposes the fleet-wide conflict sweep over HTTP.
package conflicts

import (
	"net/http"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/conflict"
)

// NewListHandler returns an HTTP handler running a full sweep via
// GET /conflicts. Every call re-examines the whole fleet; the result is not
// cached beyond what the store itself caches.
func NewListHandler(det *conflict.Detector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		found, err := det.DetectAll(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if found == nil {
			found = []conflict.Conflict{}
		}
		respond.JSON(w, http.StatusOK, found)
	})
}
