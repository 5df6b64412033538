package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/user/model"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gRepo "salon/shared/repository"
)

// User stores the identities clients and providers hang off. Passwords reach it already hashed.
type User interface {
	Insert(ctx context.Context, user model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, changes map[string]any, filter gDto.FilterGroup) (int, error)
}

// The password hash is never selected unless a caller names the column.
var readColumns = []string{
	model.FieldID, model.FieldUsername, model.FieldEmail, model.FieldFirstName, model.FieldLastName, model.FieldRole,
	constant.FieldCreatedAt, constant.FieldCreatedBy, constant.FieldModifiedAt, constant.FieldModifiedBy,
}

type repositoryImpl struct {
	rows gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		rows: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, user model.User) error {
	return r.rows.Insert(ctx, user) //nolint:wrapcheck
}

func (r *repositoryImpl) Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error) {
	if len(columns) == 0 {
		columns = readColumns
	}

	return r.rows.Get(ctx, filter, columns...) //nolint:wrapcheck
}

func (r *repositoryImpl) Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	return r.rows.Exist(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) Update(ctx context.Context, changes map[string]any, filter gDto.FilterGroup) (int, error) {
	return r.rows.Update(ctx, changes, filter) //nolint:wrapcheck
}
