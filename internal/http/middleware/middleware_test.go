package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	rl "github.com/rogerio-castellano/order-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/order-tracker/internal/idempotency"
	"github.com/rogerio-castellano/order-tracker/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingHandler answers with status and counts its invocations.
func countingHandler(status int, calls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"call":` + strconv.Itoa(int(n)) + `}`))
	})
}

func send(h http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysCreated(t *testing.T) {
	var calls atomic.Int32
	h := Idempotency(idempotency.NewMemoryStore(time.Hour), zerolog.Nop())(countingHandler(http.StatusCreated, &calls))

	first := send(h, "k1")
	second := send(h, "k1")

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, "true", second.Header().Get(ReplayedHeader))
	assert.Empty(t, first.Header().Get(ReplayedHeader))
}

func TestIdempotency_ReleasesOnFailure(t *testing.T) {
	var calls atomic.Int32
	store := idempotency.NewMemoryStore(time.Hour)
	h := Idempotency(store, zerolog.Nop())(countingHandler(http.StatusBadRequest, &calls))

	send(h, "k1")
	w := send(h, "k1")

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reserved, err := store.Reserve(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, reserved, "key must be free again")
}

func TestIdempotency_ReleasesOnPanic(t *testing.T) {
	store := idempotency.NewMemoryStore(time.Hour)
	h := Idempotency(store, zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("handler failed")
	}))

	assert.Panics(t, func() { send(h, "k1") })

	reserved, err := store.Reserve(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, reserved, "key must be free again")
}

func TestIdempotency_InProgress(t *testing.T) {
	var calls atomic.Int32
	store := idempotency.NewMemoryStore(time.Hour)
	_, err := store.Reserve(context.Background(), "busy")
	require.NoError(t, err)

	w := send(Idempotency(store, zerolog.Nop())(countingHandler(http.StatusCreated, &calls)), "busy")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, calls.Load())
	assert.Contains(t, w.Body.String(), "already in progress")
}

func TestIdempotency_PassThrough(t *testing.T) {
	var calls atomic.Int32
	h := Idempotency(idempotency.NewMemoryStore(time.Hour), zerolog.Nop())(countingHandler(http.StatusCreated, &calls))

	send(h, "")
	send(h, "")
	assert.Equal(t, int32(2), calls.Load())

	w := send(h, strings.Repeat("x", 256))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(2), calls.Load())
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (idempotency.Response, bool, error) {
	return idempotency.Response{}, false, errors.New("connection refused")
}
func (brokenStore) Reserve(context.Context, string) (bool, error) { return false, nil }
func (brokenStore) Save(context.Context, string, idempotency.Response) error { return nil }
func (brokenStore) Release(context.Context, string) error { return nil }

func TestIdempotency_StoreFailureServesRequest(t *testing.T) {
	var calls atomic.Int32
	h := Idempotency(brokenStore{}, zerolog.Nop())(countingHandler(http.StatusCreated, &calls))

	w := send(h, "k1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRateLimit(t *testing.T) {
	var calls atomic.Int32
	h := RateLimit(rl.New(0.001, 2))(countingHandler(http.StatusOK, &calls))

	req := func(addr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, req("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, req("10.0.0.1:1001").Code)

	w := req("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, req("10.0.0.2:1000").Code, "other clients keep their own bucket")
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	r.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", clientIP(r))

	// chi's RealIP leaves a bare address behind.
	r.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", clientIP(r))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(log, m))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "0" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("hello"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/items/7", entry["path"])
	assert.Equal(t, "/items/{id}", entry["route"])
	assert.EqualValues(t, 200, entry["status"])
	assert.EqualValues(t, 5, entry["bytes"])
	assert.NotEmpty(t, entry["request_id"])

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/0", nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/items/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/items/{id}", "404")))
}
