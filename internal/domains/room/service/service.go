package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/internal/domains/room/model/dto"
	"salon/internal/domains/room/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheRoom  = "room:get"
	cacheRooms = "room:gets"
)

// Room is the read side of the room catalog. Rooms are managed by an admin collaborator.
type Room interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// GetAll caches whole pages, total included, so a page and its count never disagree.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKeyWithQuery(cacheRooms, req, filter)

	return cache.Through(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetRoomsResponse, err error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count rooms")

			return page, fmt.Errorf("count rooms: %w", err)
		}

		rooms, err := s.repo.List(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list rooms")

			return page, fmt.Errorf("list rooms: %w", err)
		}

		page.FromModels(rooms, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("room.id", id)

	return cache.Through(ctx, s.cache, shared.BuildCacheKey(cacheRoom, id), s.cfg.Cache.TTL, func(ctx context.Context) (room dto.RoomResponse, err error) {
		found, err := s.repo.ByID(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("room_id", id).Msg("failed to get room")

			return room, fmt.Errorf("get room %s: %w", id, err)
		}

		if found.ID == constant.Empty {
			return room, failure.NotFound("room not found") // nolint:wrapcheck
		}

		room.FromModel(found)

		return room, nil
	})
}
