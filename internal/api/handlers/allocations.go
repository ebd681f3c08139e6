package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"supply-route-service/internal/api/dto"
	"supply-route-service/internal/services"
)

type AllocationHandler struct {
	Runs *services.RunService
}

// Create runs an allocation on the network carried in the request body.
func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AllocationRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	variant, err := services.ResolveVariant(req.Variant, len(req.Vehicles) > 0)
	if err != nil {
		writeServiceError(w, r, "allocate", err)
		return
	}

	res, err := h.Runs.Run(r.Context(), variant, services.AllocationRequest{
		Period:   req.PeriodLabel(),
		Supply:   req.SupplyPoints(),
		Demand:   req.DemandPoints(),
		Vehicles: req.DomainVehicles(),
	})
	if err != nil {
		writeServiceError(w, r, "allocate", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewAllocationResponse(res, req.Diagnostics))
}

// RunStored runs an allocation on the network stored for a period.
func (h *AllocationHandler) RunStored(w http.ResponseWriter, r *http.Request) {
	var req dto.StoredAllocationRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	res, err := h.Runs.RunStored(r.Context(), req.Period, req.Variant)
	if err != nil {
		writeServiceError(w, r, "allocate stored", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewAllocationResponse(res, req.Diagnostics))
}

// Latest returns the newest run recorded for the period in the path.
func (h *AllocationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	period, err := url.PathUnescape(chi.URLParam(r, "period"))
	if err != nil || period == "" {
		writeError(w, r, http.StatusBadRequest, "invalid period")
		return
	}

	res, err := h.Runs.Latest(r.Context(), period)
	if err != nil {
		writeServiceError(w, r, "latest run", err)
		return
	}

	diagnostics, _ := strconv.ParseBool(r.URL.Query().Get("diagnostics"))
	writeJSON(w, r, http.StatusOK, dto.NewAllocationResponse(res, diagnostics))
}
