// Package system exposes the service info and sync endpoints.
package system

import (
	"net/http"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/fleet"
)

type info struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// NewInfoHandler returns an HTTP handler answering GET / with the service
// banner.
func NewInfoHandler(version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		respond.JSON(w, http.StatusOK, info{
			Message: "Drone Operations Coordinator API",
			Version: version,
			Status:  "operational",
		})
	})
}

// NewSyncHandler returns an HTTP handler for POST /sync. It drops the
// store's freshness cache so the next read hits the backing data source.
// Stores without a cache make this a no-op.
func NewSyncHandler(store fleet.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if s, ok := store.(fleet.Syncer); ok {
			if err := s.Sync(r.Context()); err != nil {
				respond.Error(w, http.StatusBadGateway, err.Error())
				return
			}
		}
		respond.JSON(w, http.StatusOK, map[string]string{"message": "sync complete"})
	})
}
