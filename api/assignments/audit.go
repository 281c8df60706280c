package assignments

import (
	"net/http"
	"time"

	"github.com/divyarao54/drone-coordinator/api/respond"
	"github.com/divyarao54/drone-coordinator/core/assignment/logging"
)

// NewAuditHandler returns an HTTP handler exposing the assignment audit
// trail via GET /audit. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty. Supported query parameters:
// start and end (RFC3339), project_id, pilot_id, outcome.
func NewAuditHandler(store logging.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				respond.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		if r.Method != http.MethodGet {
			respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		q := logging.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.ProjectID = r.URL.Query().Get("project_id")
		q.PilotID = r.URL.Query().Get("pilot_id")
		q.Outcome = r.URL.Query().Get("outcome")
		records, err := store.Query(r.Context(), q)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if records == nil {
			records = []logging.Record{}
		}
		respond.JSON(w, http.StatusOK, records)
	})
}
