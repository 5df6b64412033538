package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"salon/config"
	"salon/shared/constant"
	"salon/transport/http/middleware"
	"salon/transport/http/response"
	"salon/transport/http/router"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	_ "salon/docs"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

type HTTP struct {
	Config   *config.Config
	Router   router.Router
	App      middleware.AppMiddleware
	AuthRole middleware.AuthRole

	state  atomic.Int32
	once   sync.Once
	mux    *chi.Mux
	server *http.Server
	done   chan struct{}
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, authRole middleware.AuthRole) *HTTP {
	return &HTTP{
		Config:   cfg,
		Router:   r,
		App:      app,
		AuthRole: authRole,
		done:     make(chan struct{}),
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Serve blocks until the server has been shut down after SIGTERM or SIGINT.
func (h *HTTP) Serve() {
	h.setup()
	h.setupGracefulShutdown()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-h.done
}

// ServeHTTP lets the router run behind another server, as the serverless entry point does.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()
	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.state.Store(int32(ServerStateReady))
	})
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(chiMiddleware.RequestID)
	h.mux.Use(chiMiddleware.RealIP)
	h.mux.Use(chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	h.mux.Get("/health", h.health)

	if h.Config.Server.Env != constant.ServerEnvProduction {
		h.mux.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	h.mux.Group(func(r chi.Router) {
		r.Use(h.App.Tracing)
		r.Use(h.App.RateLimit())
		r.Use(h.AuthRole.APIKey)
		r.Use(h.AuthRole.Auth)
		r.Use(h.AuthRole.RBAC)

		h.Router.SetupRoutes(r)
	})
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer close(h.done)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		h.shutdown(time.Second)

		return
	}

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}
}
