package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthHandler reports liveness. Each entry of Checks pings one optional
// dependency; a failing check turns the answer into 503.
type HealthHandler struct {
	Checks map[string]func(context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if len(h.Checks) == 0 {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	res := map[string]any{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		res["status"] = "degraded"
	}
	writeJSON(w, r, status, res)
}
