package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"salon/config"
	"salon/infras/jwt"
	otelMocks "salon/infras/otel/mocks"
	"salon/permissions"
	cacheMocks "salon/shared/cache/mocks"
	"salon/shared/constant"
	"salon/transport/http/middleware"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const secret = "test-secret"

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.App.APIKey = "internal-key"

	return cfg
}

func token(t *testing.T, role string, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.Claims{
		UserID: "user-1",
		Role:   role,
		Type:   jwt.AccessToken,
		RegisteredClaims: jwtLib.RegisteredClaims{
			ExpiresAt: jwtLib.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}

	signed, err := jwtLib.NewWithClaims(jwtLib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

// newRouter mounts the auth chain the way the HTTP server does and echoes the resolved role.
func newRouter() http.Handler {
	cfg := newConfig()
	routes, err := permissions.Load([]byte(`{"routes":[
		{"method":"GET","path":"/v1/rooms/","public":true},
		{"method":"GET","path":"/v1/reservations/","roles":["admin","staff"]}
	]}`))
	if err != nil {
		panic(err)
	}

	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg), otelMocks.NewOtel(), routes, cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		_, _ = w.Write([]byte(role))
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(authRole.APIKey)
		r.Use(authRole.Auth)
		r.Use(authRole.RBAC)

		r.Route("/v1", func(v1 chi.Router) {
			v1.Route("/rooms", func(rooms chi.Router) {
				rooms.Get("/", echo)
			})
			v1.Route("/reservations", func(reservations chi.Router) {
				reservations.Get("/", echo)
			})
			v1.Get("/unlisted", echo)
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		header         func(t *testing.T, req *http.Request)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "public route without token",
			path:           "/v1/rooms/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing authorization header",
			path:           "/v1/reservations/",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "not a bearer token",
			path: "/v1/reservations/",
			header: func(_ *testing.T, req *http.Request) {
				req.Header.Set(constant.RequestHeaderAuthorization, "Basic abc")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			path: "/v1/reservations/",
			header: func(t *testing.T, req *http.Request) {
				req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token(t, constant.RoleStaff, -time.Minute))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "staff may list reservations",
			path: "/v1/reservations/",
			header: func(t *testing.T, req *http.Request) {
				req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token(t, constant.RoleStaff, time.Hour))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   constant.RoleStaff,
		},
		{
			name: "client may not list reservations",
			path: "/v1/reservations/",
			header: func(t *testing.T, req *http.Request) {
				req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token(t, constant.RoleClient, time.Hour))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "route without a rule is closed",
			path: "/v1/unlisted",
			header: func(t *testing.T, req *http.Request) {
				req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token(t, constant.RoleAdmin, time.Hour))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "internal api key skips auth",
			path: "/v1/reservations/",
			header: func(_ *testing.T, req *http.Request) {
				req.Header.Set(constant.RequestHeaderAPIKey, "internal-key")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "wrong api key",
			path: "/v1/reservations/",
			header: func(_ *testing.T, req *http.Request) {
				req.Header.Set(constant.RequestHeaderAPIKey, "guess")
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	router := newRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != nil {
				tt.header(t, req)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name              string
		count             int64
		incrErr           error
		expectedStatus    int
		expectedRemaining string
	}{
		{name: "first request in window", count: 1, expectedStatus: http.StatusOK, expectedRemaining: "1"},
		{name: "last allowed request", count: 2, expectedStatus: http.StatusOK, expectedRemaining: "0"},
		{name: "over the limit", count: 3, expectedStatus: http.StatusTooManyRequests, expectedRemaining: "0"},
		{name: "counter store unavailable lets requests through", incrErr: context.DeadlineExceeded, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig()
			cfg.App.RateLimiter.Enable = true
			cfg.App.RateLimiter.MaxRequests = 2
			cfg.App.RateLimiter.WindowSeconds = 60

			cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
			cache.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.1:test-agent", 60).Return(tt.count, tt.incrErr)

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cache)
			handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/rooms/", nil)
			req.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.1, 172.16.0.3")
			req.Header.Set(constant.RequestHeaderUserAgent, "test-agent")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}

	t.Run("disabled limiter never touches the store", func(t *testing.T) {
		app := middleware.NewAppMiddleware(otelMocks.NewOtel(), newConfig(), cacheMocks.NewMockRedisCache(gomock.NewController(t)))
		handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestTracing(t *testing.T) {
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), newConfig(), cacheMocks.NewMockRedisCache(gomock.NewController(t)))

	router := chi.NewRouter()
	router.Use(app.Tracing)
	router.Get("/v1/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "room-1", chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/room-1", nil)
	req.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
