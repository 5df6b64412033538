package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/client/model"
	gDto "salon/shared/dto"
	gRepo "salon/shared/repository"
)

type Client interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Insert(ctx context.Context, model model.Client) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Client, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Client]
	db *postgres.Connection
}

func New(db *postgres.Connection, otel otel.Otel) Client {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Client](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
	}
}

func (r *repositoryImpl) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithTx(ctx, fn) //nolint:wrapcheck
}
