package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/rogerio-castellano/order-tracker/internal/validation"
)

// parseTimestamp reads an optional RFC3339 query parameter.
func parseTimestamp(r *http.Request, param string, invalid *validation.Error) (*time.Time, error) {
	s := r.URL.Query().Get(param)
	if s == "" {
		return nil, nil
	}

	// A literal + in the query string decodes to a space, which breaks offsets
	// like 2025-07-03T17:44:03+02:00.
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, invalid
	}
	return &ts, nil
}

func movementFilter(r *http.Request) (repo.MovementFilter, error) {
	since, err := parseTimestamp(r, "since", validation.ErrInvalidSince)
	if err != nil {
		return repo.MovementFilter{}, err
	}
	until, err := parseTimestamp(r, "until", validation.ErrInvalidUntil)
	if err != nil {
		return repo.MovementFilter{}, err
	}
	return repo.MovementFilter{Since: since, Until: until}, nil
}

// GetMovementsHandler godoc
// @Summary Get product movement logs
// @Tags movements
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "Filter movements from this timestamp (RFC3339)"
// @Param until query string false "Filter movements until this timestamp (RFC3339)"
// @Success 200 {object} ListResponse{data=[]models.Movement}
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 500 {object} ErrorResponse
// @Router /products/{id}/movements [get]
func (h *Handler) GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", validation.ErrInvalidProductID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	filter, err := movementFilter(r)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	movements, err := h.catalog.Movements(r.Context(), id, filter)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.list(w, r, movements, len(movements))
}

// ExportMovementsHandler godoc
// @Summary Export product movement logs
// @Tags movements
// @Produce text/csv, application/json
// @Param id path int true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 500 {object} ErrorResponse
// @Router /products/{id}/movements/export [get]
func (h *Handler) ExportMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", validation.ErrInvalidProductID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		h.fail(w, r, validation.ErrInvalidExportFormat, http.StatusNotFound)
		return
	}

	filter, err := movementFilter(r)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	movements, err := h.catalog.Movements(r.Context(), id, filter)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="movements.json"`)
		if err := json.NewEncoder(w).Encode(movements); err != nil {
			h.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("failed to write export")
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="movements.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "delta", "reason", "order_id", "created_at"})
		for _, m := range movements {
			orderID := ""
			if m.OrderID != nil {
				orderID = strconv.Itoa(*m.OrderID)
			}
			_ = csvWriter.Write([]string{
				strconv.Itoa(m.ID),
				strconv.Itoa(m.ProductID),
				strconv.Itoa(m.Delta),
				string(m.Reason),
				orderID,
				m.CreatedAt.Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			h.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("failed to write export")
		}
	}
}
