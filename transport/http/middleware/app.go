package middleware

import (
	"fmt"
	"net/http"
	"salon/config"
	"salon/infras/otel"
	"salon/shared/cache"
	"salon/shared/constant"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routePattern(r)

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, fmt.Sprintf("%s %s", r.Method, route))
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.route":      route,
			"http.method":     r.Method,
			"http.user_agent": r.Header.Get(constant.RequestHeaderUserAgent),
			"http.host":       r.Host,
			"http.source":     clientAddress(r),
		})

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		scope.SetAttributes(map[string]any{
			"http.status_code": ww.Status(),
		})

		if ww.Status() >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("%s %s responded %d", r.Method, route, ww.Status()))
		}
	})
}
