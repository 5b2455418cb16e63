package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Tags metrics
// @Produce json
// @Success 200 {object} SuccessResponse{data=repo.Metrics}
// @Failure 500 {object} ErrorResponse
// @Router /metrics/dashboard [get]
func (h *Handler) GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.ok(w, r, http.StatusOK, m)
}
