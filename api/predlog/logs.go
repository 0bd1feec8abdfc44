package predlog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ridepulse/eta/core/predlog"
)

// NewLogHandler returns an HTTP handler exposing the prediction log via
// GET /api/predictions/log. Requests must include an Authorization header
// with "Bearer <token>" when token is non-empty.
func NewLogHandler(store predlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := predlog.Query{}
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
		q.TripID = r.URL.Query().Get("trip")
		q.StopID = r.URL.Query().Get("stop")
		q.LowConfidenceOnly = r.URL.Query().Get("low_confidence") == "true"
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
