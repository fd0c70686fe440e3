package http

import (
	"net/http"
	"time"

	"github.com/arliden/identity/internal/identity/store"
	"github.com/arliden/identity/pkg/api"
	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/jwtx"
)

// ReadyzHandler is the readiness probe. It checks database connectivity
// and that signing material is loaded, returning 503 when either is down.
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySource,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &api.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.CanSign() {
			checks.Signer = "error: no signing key loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, api.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
