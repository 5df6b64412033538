package service_test

import (
	"context"
	"errors"
	"salon/config"
	otelMocks "salon/infras/otel/mocks"
	"salon/internal/domains/catalog/mocks"
	"salon/internal/domains/catalog/model"
	"salon/internal/domains/catalog/model/dto"
	"salon/internal/domains/catalog/service"
	roomMocks "salon/internal/domains/room/mocks"
	roomModel "salon/internal/domains/room/model"
	cacheMocks "salon/shared/cache/mocks"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errMiss = errors.New("redis: nil")

type deps struct {
	providers *mocks.MockProvider
	services  *mocks.MockService
	links     *mocks.MockLink
	rooms     *roomMocks.MockRoom
	cache     *cacheMocks.MockRedisCache
	svc       service.Catalog
}

func newDeps(t *testing.T) deps {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		providers: mocks.NewMockProvider(ctrl),
		services:  mocks.NewMockService(ctrl),
		links:     mocks.NewMockLink(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 30

	d.svc = service.New(d.providers, d.services, d.links, d.rooms, cfg, d.cache, otelMocks.NewOtel())

	return d
}

func TestCatalogService_EmployeesForService(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), "catalog:providers:service:s1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*(value.(*[]dto.ProviderResponse)) = []dto.ProviderResponse{{ID: "p1"}}

				return nil
			})

		res, err := d.svc.EmployeesForService(context.Background(), "s1")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "p1", res[0].ID)
	})

	t.Run("unknown service", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
		d.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)

		_, err := d.svc.EmployeesForService(context.Background(), "missing")
		assert.True(t, errors.Is(err, failure.ErrNotFound))
	})

	t.Run("expands rooms and services once per provider", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
		d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 30).Return(nil).AnyTimes()

		d.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{ID: "s1", Name: "Haircut", DurationMinutes: 30}, nil)

		capability := []model.ProviderRoomService{{ID: "l1", ProviderID: "p1", ServiceID: "s1", RoomID: "r1"}}
		all := []model.ProviderRoomService{
			{ID: "l1", ProviderID: "p1", ServiceID: "s1", RoomID: "r1"},
			{ID: "l2", ProviderID: "p1", ServiceID: "s2", RoomID: "r1"},
			{ID: "l3", ProviderID: "p1", ServiceID: "s2", RoomID: "r2"},
		}

		gomock.InOrder(
			d.links.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(capability, nil),
			d.links.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(all, nil),
		)

		d.providers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Provider, error) {
				assert.Equal(t, "users.last_name", params.SortBy)

				return []model.Provider{{ID: "p1", Username: "anna"}}, nil
			})
		d.rooms.EXPECT().ByIDs(gomock.Any(), gomock.Any()).
			Return([]roomModel.Room{{ID: "r1", Name: "Main"}, {ID: "r2", Name: "Back"}}, nil)
		d.services.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Service{{ID: "s1", Name: "Haircut", DurationMinutes: 30}, {ID: "s2", Name: "Colour", DurationMinutes: 90}}, nil)

		res, err := d.svc.EmployeesForService(context.Background(), "s1")
		require.NoError(t, err)
		require.Len(t, res, 1)

		assert.Equal(t, "anna", res[0].User.Username)
		assert.Len(t, res[0].Rooms, 2)
		require.Len(t, res[0].Services, 2)
		assert.Equal(t, "00:30", res[0].Services[0].Duration)
		assert.Equal(t, "01:30", res[0].Services[1].Duration)
	})

	t.Run("link lookup failure", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
		d.services.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{ID: "s1"}, nil)
		d.links.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := d.svc.EmployeesForService(context.Background(), "s1")
		assert.Error(t, err)
	})
}

func TestCatalogService_GetServices(t *testing.T) {
	d := newDeps(t)
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
	d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 30).Return(nil).AnyTimes()
	d.services.EXPECT().Count(gomock.Any(), gomock.Any()).Return(21, nil)
	d.services.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Service{{ID: "s1", Name: "Haircut", DurationMinutes: 45}}, nil)

	res, err := d.svc.GetServices(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 21, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
	require.Len(t, res.Services, 1)
	assert.Equal(t, "00:45", res.Services[0].Duration)
}

func TestCatalogService_GetProviders(t *testing.T) {
	t.Run("no providers", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
		d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 30).Return(nil).AnyTimes()
		d.providers.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		d.providers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		res, err := d.svc.GetProviders(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, res.Providers)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("count failure", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
		d.providers.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("timeout"))

		_, err := d.svc.GetProviders(context.Background(), gDto.QueryParams{})
		assert.Error(t, err)
	})
}
