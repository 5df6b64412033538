package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/room/model"
	"salon/shared"
	gDto "salon/shared/dto"
	gRepo "salon/shared/repository"
)

// Room reads rooms. A missing room comes back as the zero value, not an error.
type Room interface {
	ByID(ctx context.Context, id string) (model.Room, error)
	ByIDs(ctx context.Context, ids []string) ([]model.Room, error)
	// Lock reads the room FOR UPDATE. Inside a transaction the row stays locked until it ends,
	// which serializes every capacity check against that room.
	Lock(ctx context.Context, id string) (model.Room, error)
	List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Room, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	rows gRepo.Repository[model.Room]
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		rows: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func (r *repositoryImpl) ByID(ctx context.Context, id string) (model.Room, error) {
	room, err := r.rows.Get(ctx, byID(id))
	if err != nil {
		return room, fmt.Errorf("room %s: %w", id, err)
	}

	return room, nil
}

func (r *repositoryImpl) ByIDs(ctx context.Context, ids []string) ([]model.Room, error) {
	if len(ids) == 0 {
		return []model.Room{}, nil
	}

	rooms, err := r.rows.GetAll(ctx, gDto.QueryParams{}, shared.FilterIn(model.TableName, model.FieldID, ids))
	if err != nil {
		return nil, fmt.Errorf("rooms by id: %w", err)
	}

	return rooms, nil
}

func (r *repositoryImpl) Lock(ctx context.Context, id string) (model.Room, error) {
	room, err := r.rows.GetForUpdate(ctx, byID(id))
	if err != nil {
		return room, fmt.Errorf("lock room %s: %w", id, err)
	}

	return room, nil
}

func (r *repositoryImpl) List(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Room, error) {
	return r.rows.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) Count(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.rows.Count(ctx, filter) //nolint:wrapcheck
}
