package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/order-tracker/internal/catalog"
	"github.com/rogerio-castellano/order-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/order-tracker/internal/http/router"
	"github.com/rogerio-castellano/order-tracker/internal/idempotency"
	"github.com/rogerio-castellano/order-tracker/internal/orders"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/rs/zerolog"
)

// envelope mirrors the JSON body every API response uses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Count   *int   `json:"count"`
	Error   string `json:"error"`
}

// newRouter builds a router over a freshly seeded in-memory store:
// users 1 and 2; products 1 (Laptop, 99.99, stock 10, min 5),
// 2 (Mouse, 25.50, stock 3, min 5) and 3 (Keyboard, 49.99, stock 50, min 10).
func newRouter(t *testing.T, configure ...func(*router.Config)) (http.Handler, *repo.MemoryStore) {
	t.Helper()

	store := repo.NewMemoryStore()
	catalogSvc := catalog.NewService(store)
	if err := catalogSvc.Seed(context.Background()); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	cfg := router.Config{
		Handler:     handlers.NewHandler(catalogSvc, orders.NewService(store), zerolog.Nop()),
		Logger:      zerolog.Nop(),
		Idempotency: idempotency.NewMemoryStore(time.Hour),
	}
	for _, c := range configure {
		c(&cfg)
	}
	return router.NewRouter(cfg), store
}

func do(r http.Handler, method, path string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	return do(r, http.MethodGet, path, nil)
}

func postJSON(r http.Handler, path string, payload any, headers ...map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return do(r, http.MethodPost, path, bytes.NewReader(body), headers...)
}

func postRaw(r http.Handler, path, raw string) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, path, bytes.NewBufferString(raw))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("error decoding response %q: %v", w.Body.String(), err)
	}
	return env
}

// expectError checks status code and the failure envelope.
func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	env := decode[json.RawMessage](t, w)
	if env.Success {
		t.Errorf("expected success=false")
	}
	if env.Error != message {
		t.Errorf("expected error %q, got %q", message, env.Error)
	}
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func jsonBody(payload any) io.Reader {
	body, _ := json.Marshal(payload)
	return bytes.NewReader(body)
}
