//go:build wireinject
// +build wireinject

package di

import (
	"salon/config"
	"salon/infras/jwt"
	"salon/infras/kafka"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/infras/redis"
	"salon/internal/scheduler"
	"salon/permissions"
	"salon/shared/cache"
	"salon/transport/http"
	"salon/transport/http/middleware"
	"salon/transport/http/router"

	catalogRepository "salon/internal/domains/catalog/repository"
	catalogService "salon/internal/domains/catalog/service"
	catalogHandler "salon/internal/handlers/catalog"

	roomRepository "salon/internal/domains/room/repository"
	roomService "salon/internal/domains/room/service"
	roomHandler "salon/internal/handlers/room"

	"salon/internal/domains/reservation/events"
	reservationRepository "salon/internal/domains/reservation/repository"
	reservationService "salon/internal/domains/reservation/service"
	reservationHandler "salon/internal/handlers/reservation"

	clientRepository "salon/internal/domains/client/repository"
	clientService "salon/internal/domains/client/service"
	userRepository "salon/internal/domains/user/repository"
	clientHandler "salon/internal/handlers/client"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var catalogDomain = wire.NewSet(
	catalogRepository.NewProvider,
	catalogRepository.NewService,
	catalogRepository.NewLink,
	catalogService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	events.New,
	provideReservationService,
)

var clientDomain = wire.NewSet(
	userRepository.New,
	clientRepository.New,
	clientService.New,
)

var domains = wire.NewSet(
	catalogDomain,
	roomDomain,
	reservationDomain,
	clientDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	catalogHandler.New,
	roomHandler.New,
	reservationHandler.New,
	clientHandler.New,
	router.New,
)

var scheduling = wire.NewSet(
	wire.Bind(new(scheduler.Sweeper), new(reservationService.Reservation)),
	scheduler.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeApp() *Application {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		scheduling,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}
}
