// Package httpapi assembles the public HTTP surface: the JSON API under
// /api and the original single-endpoint form on /.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	inventoryhttp "github.com/dmehra2102/clearance-sale/internal/inventory/infrastructure/http"
	orderhttp "github.com/dmehra2102/clearance-sale/internal/order/infrastructure/http"
	"github.com/dmehra2102/clearance-sale/pkg/idempotency"
)

type Deps struct {
	Log       *slog.Logger
	Inventory *inventoryhttp.Handler
	Orders    *orderhttp.Handler
	// Idempotency is optional; without it Idempotency-Key is ignored.
	Idempotency *idempotency.Store
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log))
	r.Use(middleware.Recoverer)

	once := idempotency.Middleware(d.Log, d.Idempotency, "orders", orderhttp.Duplicate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/inventory", d.Inventory.List)
		r.With(once).Post("/orders", d.Orders.Place)
	})

	r.Get("/", d.Inventory.List)
	r.With(once).Post("/", d.Orders.Place)

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
