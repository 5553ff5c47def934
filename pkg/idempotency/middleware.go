package idempotency

import (
	"log/slog"
	"net/http"
	"strings"
)

const HeaderKey = "Idempotency-Key"

// Middleware rejects a repeated Idempotency-Key. Requests without the
// header pass through. The key is released again when the handler answers
// with a 4xx or 5xx, so a corrected or retried request may reuse it.
func Middleware(log *slog.Logger, store *Store, scope string, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(HeaderKey))
			if token == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := store.RequestKey(scope, token)
			seen, err := store.Seen(r.Context(), key)
			if err != nil {
				log.Error("idempotency check failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				log.Info("duplicate request rejected", "key", key)
				reject(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if rec.status >= http.StatusBadRequest {
				if err := store.Forget(r.Context(), key); err != nil {
					log.Warn("idempotency key release failed", "key", key, "err", err)
				}
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
