package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/order-tracker/internal/validation"
)

const internalErrorMessage = "Internal server error"

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// WriteError writes the failure envelope. Middleware uses it for responses
// produced outside a handler.
func WriteError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, SuccessResponse{Success: true, Data: data}); err != nil {
		h.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("failed to write response")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, data any, count int) {
	if err := writeJSON(w, http.StatusOK, ListResponse{Success: true, Data: data, Count: count}); err != nil {
		h.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("failed to write response")
	}
}

// fail maps err to a status code. notFound is the status used for missing
// entities: 404 when the URL names the entity, 400 when the request body does.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound int) {
	verr, ok := validation.As(err)
	if !ok {
		h.log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		WriteError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	status := http.StatusBadRequest
	switch verr.Kind {
	case validation.KindNotFound:
		status = notFound
	case validation.KindConflict:
		status = http.StatusConflict
	}
	WriteError(w, status, verr.Message)
}

// pathID parses a numeric URL parameter, or returns invalid.
func pathID(r *http.Request, param string, invalid *validation.Error) (int, error) {
	return validation.ParseID(chi.URLParam(r, param), invalid)
}

// decode reads a single JSON object into dst. Anything else is an invalid body.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := readJSON(w, r, dst); err != nil {
		return validation.ErrInvalidBody
	}
	return nil
}
