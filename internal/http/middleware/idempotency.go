package middleware

import (
	"bytes"
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/order-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/order-tracker/internal/idempotency"
	"github.com/rs/zerolog"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"

	maxIdempotencyKeyLen = 255
)

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key that already produced 201 Created. Requests without the
// header pass through. Store failures are logged and the request is served
// normally.
func Idempotency(store idempotency.Store, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLen {
				handlers.WriteError(w, http.StatusBadRequest, "Invalid Idempotency-Key")
				return
			}

			ctx := r.Context()
			l := log.With().Str("request_id", chimw.GetReqID(ctx)).Str("idempotency_key", key).Logger()

			saved, found, err := store.Get(ctx, key)
			if err != nil {
				l.Error().Err(err).Msg("idempotency lookup failed")
				next.ServeHTTP(w, r)
				return
			}
			if found {
				l.Info().Msg("replaying stored response")
				w.Header().Set("Content-Type", saved.ContentType)
				w.Header().Set(ReplayedHeader, "true")
				w.WriteHeader(saved.Status)
				_, _ = w.Write(saved.Body)
				return
			}

			reserved, err := store.Reserve(ctx, key)
			if err != nil {
				l.Error().Err(err).Msg("idempotency reservation failed")
				next.ServeHTTP(w, r)
				return
			}
			if !reserved {
				handlers.WriteError(w, http.StatusConflict, "Request with this Idempotency-Key is already in progress")
				return
			}

			// The request context may already be cancelled; the outcome still has to be recorded.
			bg := context.WithoutCancel(ctx)

			var body bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			served := false
			defer func() {
				if served {
					return
				}
				// next panicked: free the key before the panic reaches the recoverer.
				if err := store.Release(bg, key); err != nil {
					l.Error().Err(err).Msg("failed to release idempotency key")
				}
			}()

			next.ServeHTTP(ww, r)
			served = true

			if ww.Status() == http.StatusCreated {
				err = store.Save(bg, key, idempotency.Response{
					Status:      ww.Status(),
					ContentType: ww.Header().Get("Content-Type"),
					Body:        body.Bytes(),
				})
			} else {
				err = store.Release(bg, key)
			}
			if err != nil {
				l.Error().Err(err).Msg("failed to record idempotent response")
			}
		})
	}
}
