package predictions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ridepulse/eta/core/model"
	"github.com/ridepulse/eta/core/pattern"
	"github.com/ridepulse/eta/core/predictor"
)

// Service answers prediction queries, recording them for observability.
type Service interface {
	Predict(q predictor.Query, source string) (model.Prediction, error)
}

// NewHandler returns an HTTP handler serving predictions via
// GET /api/predictions?trip=&stop=&direction=&at=. The at parameter is an
// RFC3339 reference time; omitted it defaults to now.
func NewHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := predictor.Query{
			TripID:    r.URL.Query().Get("trip"),
			StopID:    r.URL.Query().Get("stop"),
			Direction: r.URL.Query().Get("direction"),
		}
		if q.TripID == "" || q.StopID == "" {
			http.Error(w, "trip and stop are required", http.StatusBadRequest)
			return
		}
		if s := r.URL.Query().Get("at"); s != "" {
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "at must be RFC3339", http.StatusBadRequest)
				return
			}
			q.Reference = ts
		}
		pred, err := svc.Predict(q, "api")
		if err != nil {
			if errors.Is(err, pattern.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(pred); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
