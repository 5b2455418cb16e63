package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/order-tracker/internal/validation"
)

const maxImportBytes = 10 << 20

var importColumns = []string{"name", "price", "stock", "minstock"}

// csvRow holds a row as a ProductPayload, or the reason it could not be read.
type csvRow struct {
	payload validation.ProductPayload
	err     error
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, validation.ErrInvalidCSV
	}

	index := map[string]int{}
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if slices.Contains(importColumns, name) {
			index[name] = i
		}
	}
	for _, required := range importColumns[:3] {
		if _, ok := index[required]; !ok {
			return nil, validation.ErrInvalidCSV
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, validation.ErrInvalidCSV
		}
		rows = append(rows, parseRow(record, index))
	}
	return rows, nil
}

func parseRow(record []string, index map[string]int) csvRow {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var row csvRow
	row.payload.Name = cell("name")

	if s := cell("price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			row.err = fmt.Errorf("invalid price %q", s)
			return row
		}
		row.payload.Price = &v
	}

	ints := []struct {
		col string
		dst **int
	}{
		{"stock", &row.payload.Stock},
		{"minstock", &row.payload.MinStock},
	}
	for _, f := range ints {
		s := cell(f.col)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			row.err = fmt.Errorf("invalid %s %q", f.col, s)
			return row
		}
		*f.dst = &v
	}
	return row
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, price, stock and optionally minStock. Each valid row becomes a product;
// @Description invalid rows are reported with their line number.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} SuccessResponse{data=ImportProductsResult}
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Failure 500 {object} ErrorResponse
// @Router /products/import [post]
func (h *Handler) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, validation.ErrMissingFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	result := ImportProductsResult{Errors: []ImportRowError{}}
	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if rec.err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Error: rec.err.Error()})
			continue
		}

		if _, err := h.catalog.CreateProduct(r.Context(), rec.payload); err != nil {
			verr, ok := validation.As(err)
			if !ok {
				h.fail(w, r, err, http.StatusBadRequest)
				return
			}
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Error: verr.Message})
			continue
		}
		result.Imported++
	}

	h.ok(w, r, http.StatusOK, result)
}
