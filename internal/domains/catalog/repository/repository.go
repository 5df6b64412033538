package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/catalog/model"
	gDto "salon/shared/dto"
	gRepo "salon/shared/repository"
)

type Provider interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Provider, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Provider, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type Service interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Service, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Service, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

// Link reads capability links.
type Link interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.ProviderRoomService, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ProviderRoomService, error)
}

type providerRepository struct {
	gRepo.Repository[model.Provider]
}

type serviceRepository struct {
	gRepo.Repository[model.Service]
}

type linkRepository struct {
	gRepo.Repository[model.ProviderRoomService]
}

func NewProvider(db *postgres.Connection, otel otel.Otel) Provider {
	return &providerRepository{
		Repository: gRepo.NewRepository[model.Provider](model.ProviderEntityName, model.ProviderTableName, model.FieldID, db, otel),
	}
}

func NewService(db *postgres.Connection, otel otel.Otel) Service {
	return &serviceRepository{
		Repository: gRepo.NewRepository[model.Service](model.ServiceEntityName, model.ServiceTableName, model.FieldID, db, otel),
	}
}

func NewLink(db *postgres.Connection, otel otel.Otel) Link {
	return &linkRepository{
		Repository: gRepo.NewRepository[model.ProviderRoomService](model.LinkEntityName, model.LinkTableName, model.FieldID, db, otel),
	}
}
