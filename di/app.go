package di

import (
	"context"
	"salon/config"
	"salon/infras/kafka"
	"salon/infras/otel"
	"salon/infras/postgres"
	catalogRepository "salon/internal/domains/catalog/repository"
	"salon/internal/domains/reservation/events"
	reservationRepository "salon/internal/domains/reservation/repository"
	reservationService "salon/internal/domains/reservation/service"
	roomRepository "salon/internal/domains/room/repository"
	"salon/internal/scheduler"
	"salon/transport/http"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Application is everything cmd/app runs and shuts down.
type Application struct {
	HTTP      *http.HTTP
	Scheduler *scheduler.Scheduler
	Otel      otel.Otel
	Kafka     kafka.Client
	DB        *postgres.Connection
	Redis     *goRedis.Client
}

// Close releases what outlives the HTTP server.
func (a *Application) Close(ctx context.Context) {
	a.Scheduler.Stop(ctx)

	if err := a.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka client")
	}

	if err := a.Redis.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis client")
	}

	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database connections")
	}

	if err := a.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shut down tracer provider")
	}
}

func provideReservationService(
	repo reservationRepository.Reservation,
	roomRepo roomRepository.Room,
	serviceRepo catalogRepository.Service,
	linkRepo catalogRepository.Link,
	publisher events.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) reservationService.Reservation {
	return reservationService.New(repo, roomRepo, serviceRepo, linkRepo, publisher, cfg, otel)
}
