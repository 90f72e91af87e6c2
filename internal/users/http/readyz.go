package http

import (
	"net/http"
	"time"

	"github.com/pillarhq/userd/internal/users/store"
	"github.com/pillarhq/userd/pkg/httpx"
	"github.com/pillarhq/userd/pkg/userdsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and the state of
//	@Description	critical dependencies (currently the database)
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	userdsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	userdsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &userdsdk.HealthChecks{
			Database: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := userdsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
