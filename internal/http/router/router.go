package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rogerio-castellano/order-tracker/docs"
	"github.com/rogerio-castellano/order-tracker/internal/http/handlers"
	mw "github.com/rogerio-castellano/order-tracker/internal/http/middleware"
	rl "github.com/rogerio-castellano/order-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/order-tracker/internal/idempotency"
	"github.com/rogerio-castellano/order-tracker/internal/metrics"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Config carries the router's collaborators. Nil Limiter, Idempotency or
// Gatherer switch the matching feature off.
type Config struct {
	Handler     *handlers.Handler
	Logger      zerolog.Logger
	Metrics     *metrics.Collector
	Gatherer    prometheus.Gatherer
	Limiter     *rl.Limiter
	Idempotency idempotency.Store
	Timeout     time.Duration
}

func NewRouter(cfg Config) http.Handler {
	h := cfg.Handler

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(mw.RateLimit(cfg.Limiter))
		}

		r.Get("/products", h.GetProductsHandler)
		r.Post("/products", h.CreateProductHandler)
		r.Get("/products/low-stock", h.GetLowStockProductsHandler)
		r.Post("/products/import", h.ImportProductsHandler)
		r.Get("/products/{id}", h.GetProductByIDHandler)
		r.Put("/products/{id}", h.UpdateProductHandler)
		r.Post("/products/{id}/adjust", h.AdjustQuantityHandler)
		r.Get("/products/{id}/movements", h.GetMovementsHandler)
		r.Get("/products/{id}/movements/export", h.ExportMovementsHandler)

		r.Get("/users", h.GetUsersHandler)
		r.Get("/users/{id}", h.GetUserByIDHandler)

		if cfg.Idempotency != nil {
			r.With(mw.Idempotency(cfg.Idempotency, cfg.Logger)).Post("/orders", h.CreateOrderHandler)
		} else {
			r.Post("/orders", h.CreateOrderHandler)
		}
		r.Get("/orders/{id}", h.GetOrderByIDHandler)
		r.Get("/orders/user/{userId}", h.GetOrdersByUserHandler)

		r.Get("/metrics/dashboard", h.GetDashboardMetricsHandler)
	})

	return r
}
