package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
)

const serviceName = "backporter"

func healthHandler(startedAt time.Time, activeRuns func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:    "healthy",
			Service:   serviceName,
			Version:   types.Version,
			StartedAt: startedAt,
		}
		if activeRuns != nil {
			status.ActiveRuns = activeRuns()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
