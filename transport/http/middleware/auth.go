package middleware

import (
	"context"
	"errors"
	"net/http"
	"salon/config"
	"salon/infras/jwt"
	"salon/infras/otel"
	"salon/permissions"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type internalCallerKey struct{}

// Auth authenticates callers: internal services by API key, everyone else by access token.
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role enforces the per-route role lists.
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	routes     *permissions.Table
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, routes *permissions.Table, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		routes:     routes,
		cfg:        cfg,
	}
}

// routePattern resolves the chi pattern the request will be dispatched to, e.g. /v1/reservations/{id}.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path); pattern != "" {
		return pattern
	}

	return r.URL.Path
}

func isInternal(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallerKey{}).(bool)

	return internal
}

// APIKey marks requests carrying the configured X-API-Key as internal. A wrong key is rejected.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := r.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(w, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), internalCallerKey{}, true)))
	})
}

// Auth validates the bearer token on non-public routes and stores its claims in the context.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		pattern := routePattern(r)
		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.route":      pattern,
			"http.method":     r.Method,
		})

		if rule, ok := m.routes.Lookup(r.Method, pattern); isInternal(ctx) || (ok && rule.Public) {
			next.ServeHTTP(w, r)

			return
		}

		claims, err := m.claims(r)
		if err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}

		ctx = context.WithValue(r.Context(), constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *authRoleImpl) claims(r *http.Request) (*jwt.Claims, error) {
	header := r.Header.Get(constant.RequestHeaderAuthorization)
	if header == "" {
		return nil, failure.Unauthorized("Missing authorization header")
	}

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(token)

	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return nil, failure.Unauthorized("Invalid token claims")
	case err != nil:
		return nil, failure.Unauthorized("Invalid token")
	case claims.Role == "":
		log.Warn().Str("user_id", claims.UserID).Msg("access token carries no role")

		return nil, failure.Unauthorized("Invalid token claims")
	}

	return claims, nil
}

// RBAC lets the request through when the route is public, the caller is internal, or the
// caller's role is listed for the route. Routes missing from the table are forbidden.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if isInternal(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		pattern := routePattern(r)
		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		rule, ok := m.routes.Lookup(r.Method, pattern)
		if ok && (rule.Public || rule.Allows(role)) {
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttributes(map[string]any{
			"user_role":     role,
			"allowed_roles": rule.Roles,
			"http.route":    pattern,
		})
		scope.TraceError(failure.ForbiddenError)

		response.WithError(w, failure.ForbiddenError)
	})
}
