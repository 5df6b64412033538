package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/reservation/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	gRepo "salon/shared/repository"
	"time"
)

const sweepActor = "system:sweep"

// Reservation is the store the booking engine reads and writes. Every method joins the
// transaction opened by WithTx when called with its context.
type Reservation interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CountAtSlot(ctx context.Context, roomID string, date time.Time, start gModel.TimeOfDay, excludeID string) (int, error)
	StartTimes(ctx context.Context, roomID string, date time.Time) ([]gModel.TimeOfDay, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
	GetVisits(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Visit, error)
	CountVisits(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	visits gRepo.Repository[model.Visit]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		visits:     gRepo.NewRepository[model.Visit]("visit", model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithTx(ctx, fn) //nolint:wrapcheck
}

// CountAtSlot counts reservations sharing the exact (room, date, start) key.
func (r *repositoryImpl) CountAtSlot(ctx context.Context, roomID string, date time.Time, start gModel.TimeOfDay, excludeID string) (int, error) {
	filter := SlotFilter(roomID, date, start)

	if excludeID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	return r.Count(ctx, filter) //nolint:wrapcheck
}

// StartTimes returns the start time of every reservation in the room on date, in one read.
func (r *repositoryImpl) StartTimes(ctx context.Context, roomID string, date time.Time) ([]gModel.TimeOfDay, error) {
	rows, err := r.GetAll(ctx, gDto.QueryParams{}, shared.FilterEq(model.TableName,
		model.FieldRoomID, roomID,
		model.FieldDate, date.Format(constant.DayFormat),
	), model.FieldStartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to read room schedule: %w", err)
	}

	starts := make([]gModel.TimeOfDay, len(rows))
	for i, row := range rows {
		starts[i] = row.StartTime
	}

	return starts, nil
}

// CompleteElapsed flips every scheduled reservation whose start is at or before now.
// It is a single conditional UPDATE, so concurrent callers never complete a row twice.
func (r *repositoryImpl) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CompleteElapsed")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :completed, %s = :modified_at, %s = :modified_by "+
			"WHERE %s = :scheduled AND %s + %s <= CAST(:now AS timestamp)",
		model.TableName, model.FieldStatus, constant.FieldModifiedAt, constant.FieldModifiedBy,
		model.FieldStatus, model.FieldDate, model.FieldStartTime,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	affected, err := r.Exec(ctx, query, map[string]any{
		"completed":   model.StatusCompleted,
		"scheduled":   model.StatusScheduled,
		"modified_at": now,
		"modified_by": sweepActor,
		"now":         now.Format(constant.TimestampFormat),
	})
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to complete elapsed reservations: %w", err)
	}

	scope.SetAttribute("rows", affected)

	return affected, nil
}

func (r *repositoryImpl) GetVisits(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Visit, error) {
	return r.visits.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) CountVisits(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.visits.Count(ctx, filter) //nolint:wrapcheck
}

// SlotFilter matches the capacity key of a reservation.
func SlotFilter(roomID string, date time.Time, start gModel.TimeOfDay) gDto.FilterGroup {
	return shared.FilterEq(model.TableName,
		model.FieldRoomID, roomID,
		model.FieldDate, date.Format(constant.DayFormat),
		model.FieldStartTime, start,
	)
}
