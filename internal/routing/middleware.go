package routing

import (
	"net/http"

	routingmetrics "sudsy/internal/routing/metrics"
)

// Middleware classifies every request's Host header and attaches the
// resolution plus a memoized tenant loader to the request context. It never
// rejects a request; unresolvable hosts carry KindNone downstream.
func Middleware(cfg Config, dir Directory, m *routingmetrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := Resolve(cfg, r.Host, r.URL.Query())
			if m != nil {
				m.IncrementResolution(string(res.Kind))
			}

			ctx := WithResolution(r.Context(), res)
			ctx = WithTenantLoader(ctx, NewTenantLoader(dir, res))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
