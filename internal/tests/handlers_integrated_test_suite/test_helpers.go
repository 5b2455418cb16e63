package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rogerio-castellano/order-tracker/internal/catalog"
	"github.com/rogerio-castellano/order-tracker/internal/db"
	"github.com/rogerio-castellano/order-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/order-tracker/internal/http/router"
	"github.com/rogerio-castellano/order-tracker/internal/orders"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/rs/zerolog"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Count   *int   `json:"count"`
	Error   string `json:"error"`
}

// newRouter runs the API against the database in DATABASE_URL, migrated,
// truncated and seeded. Tests skip when it is unset.
func newRouter(t *testing.T) (http.Handler, *repo.PostgresStore) {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dbURL)
	if err != nil {
		t.Fatalf("could not connect to database: %v", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("could not migrate database: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE movements, orders, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("could not truncate tables: %v", err)
	}

	store := repo.NewPostgresStore(pool)
	t.Cleanup(store.Close)

	catalogSvc := catalog.NewService(store)
	if err := catalogSvc.Seed(ctx); err != nil {
		t.Fatalf("seeding database: %v", err)
	}

	h := handlers.NewHandler(catalogSvc, orders.NewService(store), zerolog.Nop())
	return router.NewRouter(router.Config{Handler: h, Logger: zerolog.Nop()}), store
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r http.Handler, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("error decoding response %q: %v", w.Body.String(), err)
	}
	return env
}
