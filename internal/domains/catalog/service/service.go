package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/internal/domains/catalog/model"
	"salon/internal/domains/catalog/model/dto"
	"salon/internal/domains/catalog/repository"
	roomModel "salon/internal/domains/room/model"
	roomDto "salon/internal/domains/room/model/dto"
	roomRepo "salon/internal/domains/room/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheProvidersForService = "catalog:providers:service"
	cacheGetAllProvider      = "catalog:providers:gets"
	cacheGetAllService       = "catalog:services:gets"
)

// Catalog answers read-only questions about providers, services and their capability links.
type Catalog interface {
	EmployeesForService(ctx context.Context, serviceID string) ([]dto.ProviderResponse, error)
	GetProviders(ctx context.Context, req gDto.QueryParams) (dto.GetProvidersResponse, error)
	GetServices(ctx context.Context, req gDto.QueryParams) (dto.GetServicesResponse, error)
}

type serviceImpl struct {
	providerRepo repository.Provider
	serviceRepo  repository.Service
	linkRepo     repository.Link
	roomRepo     roomRepo.Room
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	providerRepo repository.Provider,
	serviceRepo repository.Service,
	linkRepo repository.Link,
	roomRepo roomRepo.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Catalog {
	return &serviceImpl{
		providerRepo: providerRepo,
		serviceRepo:  serviceRepo,
		linkRepo:     linkRepo,
		roomRepo:     roomRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) EmployeesForService(ctx context.Context, serviceID string) (res []dto.ProviderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.EmployeesForService")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("service.id", serviceID)

	key := shared.BuildCacheKey(cacheProvidersForService, serviceID)

	return cache.Through(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) ([]dto.ProviderResponse, error) {
		return s.providersForService(ctx, serviceID)
	})
}

func (s *serviceImpl) providersForService(ctx context.Context, serviceID string) ([]dto.ProviderResponse, error) {
	service, err := s.serviceRepo.Get(ctx, shared.FilterByID(serviceID, model.FieldID, model.ServiceTableName))
	if err != nil {
		log.Error().Err(err).Str("service_id", serviceID).Msg("failed to get service")

		return nil, fmt.Errorf("get service %s: %w", serviceID, err)
	}

	if service.ID == constant.Empty {
		return nil, failure.NotFound("service not found") // nolint:wrapcheck
	}

	links, err := s.linkRepo.GetAll(ctx, gDto.QueryParams{},
		shared.FilterEq(model.LinkTableName, model.FieldServiceID, serviceID))
	if err != nil {
		log.Error().Err(err).Str("service_id", serviceID).Msg("failed to get capability links")

		return nil, fmt.Errorf("list capability links: %w", err)
	}

	providers, err := s.providerRepo.GetAll(ctx, gDto.QueryParams{SortBy: "users.last_name", SortDir: gDto.SortDirAsc},
		shared.FilterIn(model.ProviderTableName, model.FieldID, distinct(links, providerOf)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get providers")

		return nil, fmt.Errorf("list providers: %w", err)
	}

	return s.expand(ctx, providers)
}

func (s *serviceImpl) GetProviders(ctx context.Context, req gDto.QueryParams) (res dto.GetProvidersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.GetProviders")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKeyWithQuery(cacheGetAllProvider, req, gDto.FilterGroup{})

	return cache.Through(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetProvidersResponse, err error) {
		total, err := s.providerRepo.Count(ctx, gDto.FilterGroup{})
		if err != nil {
			log.Error().Err(err).Msg("failed to count providers")

			return page, fmt.Errorf("count providers: %w", err)
		}

		providers, err := s.providerRepo.GetAll(ctx, req, gDto.FilterGroup{})
		if err != nil {
			log.Error().Err(err).Msg("failed to get providers")

			return page, fmt.Errorf("list providers: %w", err)
		}

		if page.Providers, err = s.expand(ctx, providers); err != nil {
			return page, err
		}

		page.TotalData = total
		page.TotalPage = shared.CalculateTotalPage(total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) GetServices(ctx context.Context, req gDto.QueryParams) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.GetServices")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKeyWithQuery(cacheGetAllService, req, gDto.FilterGroup{})

	return cache.Through(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetServicesResponse, err error) {
		total, err := s.serviceRepo.Count(ctx, gDto.FilterGroup{})
		if err != nil {
			log.Error().Err(err).Msg("failed to count services")

			return page, fmt.Errorf("count services: %w", err)
		}

		services, err := s.serviceRepo.GetAll(ctx, req, gDto.FilterGroup{})
		if err != nil {
			log.Error().Err(err).Msg("failed to get services")

			return page, fmt.Errorf("list services: %w", err)
		}

		page.FromModels(services, total, req.Limit)

		return page, nil
	})
}

// expand attaches the rooms and services each provider is linked to.
func (s *serviceImpl) expand(ctx context.Context, providers []model.Provider) ([]dto.ProviderResponse, error) {
	res := make([]dto.ProviderResponse, len(providers))
	if len(providers) == 0 {
		return res, nil
	}

	ids := make([]string, len(providers))
	for i, provider := range providers {
		ids[i] = provider.ID
	}

	links, err := s.linkRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterIn(model.LinkTableName, model.FieldProviderID, ids))
	if err != nil {
		log.Error().Err(err).Msg("failed to get provider links")

		return nil, fmt.Errorf("failed to get provider links: %w", err)
	}

	rooms, err := s.roomRepo.ByIDs(ctx, distinct(links, roomOf))
	if err != nil {
		log.Error().Err(err).Msg("failed to get linked rooms")

		return nil, fmt.Errorf("failed to get linked rooms: %w", err)
	}

	services, err := s.serviceRepo.GetAll(ctx, gDto.QueryParams{},
		shared.FilterIn(model.ServiceTableName, model.FieldID, distinct(links, serviceOf)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get linked services")

		return nil, fmt.Errorf("failed to get linked services: %w", err)
	}

	roomByID := make(map[string]roomModel.Room, len(rooms))
	for _, room := range rooms {
		roomByID[room.ID] = room
	}

	serviceByID := make(map[string]model.Service, len(services))
	for _, service := range services {
		serviceByID[service.ID] = service
	}

	index := make(map[string]int, len(providers))

	for i, provider := range providers {
		res[i].FromModel(provider)
		index[provider.ID] = i
	}

	seenRoom := map[[2]string]bool{}
	seenService := map[[2]string]bool{}

	for _, link := range links {
		i, ok := index[link.ProviderID]
		if !ok {
			continue
		}

		if room, ok := roomByID[link.RoomID]; ok && !seenRoom[[2]string{link.ProviderID, room.ID}] {
			seenRoom[[2]string{link.ProviderID, room.ID}] = true

			var r roomDto.RoomResponse

			r.FromModel(room)
			res[i].Rooms = append(res[i].Rooms, r)
		}

		if service, ok := serviceByID[link.ServiceID]; ok && !seenService[[2]string{link.ProviderID, service.ID}] {
			seenService[[2]string{link.ProviderID, service.ID}] = true

			var sr dto.ServiceResponse

			sr.FromModel(service)
			res[i].Services = append(res[i].Services, sr)
		}
	}

	return res, nil
}

func providerOf(link model.ProviderRoomService) string { return link.ProviderID }
func roomOf(link model.ProviderRoomService) string     { return link.RoomID }
func serviceOf(link model.ProviderRoomService) string  { return link.ServiceID }

func distinct(links []model.ProviderRoomService, key func(model.ProviderRoomService) string) []string {
	seen := make(map[string]bool, len(links))
	out := make([]string, 0, len(links))

	for _, link := range links {
		k := key(link)
		if seen[k] {
			continue
		}

		seen[k] = true
		out = append(out, k)
	}

	return out
}
