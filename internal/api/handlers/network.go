package handlers

import (
	"net/http"
	"strings"

	"supply-route-service/internal/api/dto"
	"supply-route-service/internal/services"
)

type NetworkHandler struct {
	Runs *services.RunService
}

// Get returns the stored network for ?period=.
func (h *NetworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	if period == "" {
		writeError(w, r, http.StatusBadRequest, "period is required")
		return
	}

	n, err := h.Runs.LoadNetwork(r.Context(), period)
	if err != nil {
		writeServiceError(w, r, "load network", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewNetworkResponse(n.Period, n.Supply, n.Demand, n.Vehicles))
}
