// Package service is the booking engine: it resolves availability, commits and re-targets
// reservations under the room capacity and sweeps elapsed reservations to completed.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/infras/postgres"
	catalogModel "salon/internal/domains/catalog/model"
	catalogRepo "salon/internal/domains/catalog/repository"
	"salon/internal/domains/reservation/events"
	"salon/internal/domains/reservation/model"
	"salon/internal/domains/reservation/model/dto"
	"salon/internal/domains/reservation/repository"
	"salon/internal/domains/reservation/slot"
	roomModel "salon/internal/domains/room/model"
	roomRepo "salon/internal/domains/room/repository"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	gModel "salon/shared/model"
	"salon/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	sweepKey    = "sweep"
	visitSortBy = "reservations.reservation_date"
)

var errCompleted = failure.BadRequestFromString("reservation is already completed")

type Reservation interface {
	Availability(ctx context.Context, providerID, serviceID, date string) (dto.AvailabilityResponse, error)
	Commit(ctx context.Context, actor dto.Actor, req dto.CommitRequest) (dto.ReservationResponse, error)
	Update(ctx context.Context, id string, actor dto.Actor, req dto.UpdateReservationRequest) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id string, actor dto.Actor) error
	Get(ctx context.Context, id string, actor dto.Actor) (dto.ReservationResponse, error)
	List(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVisitsResponse, error)
	ListByClient(ctx context.Context, clientID string, req gDto.QueryParams) (dto.GetVisitsResponse, error)
	Sweep(ctx context.Context) (int, error)
}

// Option customizes the engine.
type Option func(*serviceImpl)

// WithClock replaces the wall clock used by the sweep and the metadata stamps.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

type serviceImpl struct {
	repo        repository.Reservation
	roomRepo    roomRepo.Room
	serviceRepo catalogRepo.Service
	linkRepo    catalogRepo.Link
	publisher   events.Publisher
	cfg         *config.Config
	otel        otel.Otel
	now         func() time.Time
	sweeps      singleflight.Group
}

func New(
	repo repository.Reservation,
	roomRepo roomRepo.Room,
	serviceRepo catalogRepo.Service,
	linkRepo catalogRepo.Link,
	publisher events.Publisher,
	cfg *config.Config,
	otel otel.Otel,
	opts ...Option,
) Reservation {
	s := &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepo,
		serviceRepo: serviceRepo,
		linkRepo:    linkRepo,
		publisher:   publisher,
		cfg:         cfg,
		otel:        otel,
		now:         timezone.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// placement is where a (provider, service) pair is performed.
type placement struct {
	room    roomModel.Room
	service catalogModel.Service
}

func (p placement) duration() time.Duration {
	return p.service.Duration()
}

func (s *serviceImpl) Availability(ctx context.Context, providerID, serviceID, date string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := parseDate(date)
	if err != nil {
		return res, err
	}

	if ctx, err = s.fresh(ctx); err != nil {
		return res, err
	}

	place, err := s.place(ctx, providerID, serviceID)
	if err != nil {
		return res, err
	}

	starts, err := s.repo.StartTimes(ctx, place.room.ID, day)
	if err != nil {
		log.Error().Err(err).Str("room_id", place.room.ID).Msg("failed to read room schedule")

		return res, fmt.Errorf("failed to read room schedule: %w", err)
	}

	offsets := make([]time.Duration, len(starts))
	for i, start := range starts {
		offsets[i] = start.Duration()
	}

	candidates := slot.Generate(place.room.Window(), place.duration())
	free := slot.Available(candidates, slot.Tally(offsets), place.room.Capacity)

	res = dto.AvailabilityResponse{
		ProviderID: providerID,
		ServiceID:  serviceID,
		RoomID:     place.room.ID,
		Date:       day.Format(constant.DayFormat),
		Slots:      slot.FormatAll(free),
	}

	return res, nil
}

func (s *serviceImpl) Commit(ctx context.Context, actor dto.Actor, req dto.CommitRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Commit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := parseDate(req.Date)
	if err != nil {
		return res, err
	}

	start, err := parseStart(req.StartTime)
	if err != nil {
		return res, err
	}

	clientID := req.ClientID
	if actor.IsClient() {
		if actor.ClientID == constant.Empty {
			return res, failure.Forbidden("client profile required to book") // nolint:wrapcheck
		}

		clientID = &actor.ClientID
	}

	place, err := s.place(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		return res, err
	}

	if err = checkSlot(place, start); err != nil {
		return res, err
	}

	now := s.now()
	reservation := model.Reservation{
		ID:         uuid.NewString(),
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		RoomID:     place.room.ID,
		Date:       day,
		StartTime:  start,
		ClientID:   clientID,
		Status:     model.StatusScheduled,
		Metadata:   gModel.NewMetadata(actor.UserID, now),
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.reserveSeat(ctx, place.room.ID, day, start, constant.Empty); err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, reservation); err != nil {
			if postgres.IsForeignKeyViolation(err) {
				return failure.NotFound("client not found") // nolint:wrapcheck
			}

			log.Error().Err(err).Str("room_id", place.room.ID).Msg("failed to insert reservation")

			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	log.Info().
		Str("reservation_id", reservation.ID).
		Str("room_id", reservation.RoomID).
		Str("slot", reservation.StartTime.String()).
		Msg("reservation committed")

	s.publish(ctx, eventOf(events.TypeCreated, reservation, now))

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, actor dto.Actor, req dto.UpdateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("nothing to update") // nolint:wrapcheck
	}

	if ctx, err = s.fresh(ctx); err != nil {
		return res, err
	}

	current, err := s.owned(ctx, id, actor)
	if err != nil {
		return res, err
	}

	if !current.Scheduled() {
		return res, errCompleted
	}

	target, err := applyPatch(current, req)
	if err != nil {
		return res, err
	}

	place, err := s.place(ctx, target.ProviderID, target.ServiceID)
	if err != nil {
		return res, err
	}

	if err = checkSlot(place, target.StartTime); err != nil {
		return res, err
	}

	now := s.now()
	updated := current
	updated.ProviderID = target.ProviderID
	updated.ServiceID = target.ServiceID
	updated.RoomID = place.room.ID
	updated.Date = target.Date
	updated.StartTime = target.StartTime
	updated.Touch(actor.UserID, now)

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.reserveSeat(ctx, updated.RoomID, updated.Date, updated.StartTime, updated.ID); err != nil {
			return err
		}

		affected, err := s.repo.Update(ctx, map[string]any{
			model.FieldProviderID:    updated.ProviderID,
			model.FieldServiceID:     updated.ServiceID,
			model.FieldRoomID:        updated.RoomID,
			model.FieldDate:          updated.Date.Format(constant.DayFormat),
			model.FieldStartTime:     updated.StartTime,
			constant.FieldModifiedAt: updated.ModifiedAt,
			constant.FieldModifiedBy: updated.ModifiedBy,
		}, shared.FilterEq(model.TableName,
			model.FieldID, updated.ID,
			model.FieldStatus, model.StatusScheduled,
		))
		if err != nil {
			// The provider or service was removed after the link was resolved.
			if postgres.IsForeignKeyViolation(err) {
				return failure.NotFound("provider or service not found") // nolint:wrapcheck
			}

			log.Error().Err(err).Str("reservation_id", id).Msg("failed to update reservation")

			return fmt.Errorf("failed to update reservation: %w", err)
		}

		// The sweep may have completed it since it was read.
		if affected == 0 {
			return errCompleted
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.publish(ctx, eventOf(events.TypeUpdated, updated, now))

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string, actor dto.Actor) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.owned(ctx, id, actor)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	s.publish(ctx, eventOf(events.TypeDeleted, current, s.now()))

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string, actor dto.Actor) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if ctx, err = s.fresh(ctx); err != nil {
		return res, err
	}

	reservation, err := s.owned(ctx, id, actor)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) ListByClient(ctx context.Context, clientID string, req gDto.QueryParams) (dto.GetVisitsResponse, error) {
	return s.List(ctx, req, shared.FilterEq(model.TableName, model.FieldClientID, clientID))
}

func (s *serviceImpl) List(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVisitsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if ctx, err = s.fresh(ctx); err != nil {
		return res, err
	}

	// Every joined table has created_at, so ordering is pinned to a qualified column.
	req.SortBy = visitSortBy
	if req.SortDir == constant.Empty {
		req.SortDir = gDto.SortDirDesc
	}

	total, err := s.repo.CountVisits(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	visits, err := s.repo.GetVisits(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(visits, total, req.Limit)

	return res, nil
}

// fresh sweeps and pins the reads that follow to the write endpoint, so they observe the sweep
// even when the read endpoint is a lagging replica.
func (s *serviceImpl) fresh(ctx context.Context) (context.Context, error) {
	if _, err := s.Sweep(ctx); err != nil {
		return ctx, err
	}

	return postgres.OnPrimary(ctx), nil
}

// Sweep completes every scheduled reservation whose start has passed. Concurrent callers in
// this process share one pass and all receive its count.
func (s *serviceImpl) Sweep(ctx context.Context) (int, error) {
	v, err, _ := s.sweeps.Do(sweepKey, func() (any, error) {
		return s.sweep(context.WithoutCancel(ctx))
	})
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	count, _ := v.(int)

	return count, nil
}

func (s *serviceImpl) sweep(ctx context.Context) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Sweep")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.now()

	count, err = s.repo.CompleteElapsed(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep elapsed reservations")

		return 0, fmt.Errorf("failed to sweep elapsed reservations: %w", err)
	}

	if count > 0 {
		log.Info().Int("count", count).Msg("elapsed reservations completed")

		s.publish(ctx, events.Event{Type: events.TypeCompleted, Count: count, OccurredAt: now})
	}

	return count, nil
}

// place resolves the room a provider uses for a service and loads both records.
func (s *serviceImpl) place(ctx context.Context, providerID, serviceID string) (placement, error) {
	var res placement

	link, err := s.linkRepo.Get(ctx, shared.FilterEq(catalogModel.LinkTableName,
		catalogModel.FieldProviderID, providerID,
		catalogModel.FieldServiceID, serviceID,
	))
	if err != nil {
		log.Error().Err(err).Str("provider_id", providerID).Str("service_id", serviceID).Msg("failed to get capability link")

		return res, fmt.Errorf("failed to get capability link: %w", err)
	}

	if link.ID == constant.Empty {
		return res, failure.NoCapabilityLink() // nolint:wrapcheck
	}

	res.service, err = s.serviceRepo.Get(ctx, shared.FilterByID(serviceID, catalogModel.FieldID, catalogModel.ServiceTableName))
	if err != nil {
		log.Error().Err(err).Str("service_id", serviceID).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if res.service.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	res.room, err = s.roomRepo.ByID(ctx, link.RoomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", link.RoomID).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if res.room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return res, nil
}

// reserveSeat locks the room row and fails when the slot is already at capacity. The lock is
// held until the surrounding transaction ends, so concurrent commits into the room queue here.
func (s *serviceImpl) reserveSeat(ctx context.Context, roomID string, day time.Time, start gModel.TimeOfDay, excludeID string) error {
	room, err := s.roomRepo.Lock(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to lock room")

		return fmt.Errorf("failed to lock room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	taken, err := s.repo.CountAtSlot(ctx, roomID, day, start, excludeID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to count reservations at slot")

		return fmt.Errorf("failed to count reservations at slot: %w", err)
	}

	if taken >= room.Capacity {
		log.Warn().
			Str("room_id", roomID).
			Str("date", day.Format(constant.DayFormat)).
			Str("slot", start.String()).
			Int("capacity", room.Capacity).
			Msg("slot is full")

		return failure.CapacityExceeded() // nolint:wrapcheck
	}

	return nil
}

// owned loads a reservation and hides it from clients who do not own it.
func (s *serviceImpl) owned(ctx context.Context, id string, actor dto.Actor) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if actor.IsClient() && !actor.Owns(reservation) {
		return model.Reservation{}, failure.ResourceRestrictedError
	}

	return reservation, nil
}

func (s *serviceImpl) publish(ctx context.Context, evs ...events.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), evs...); err != nil {
		log.Error().Err(err).Msg("failed to publish reservation events")
	}
}

func applyPatch(current model.Reservation, req dto.UpdateReservationRequest) (dto.Target, error) {
	target := dto.Target{
		ProviderID: current.ProviderID,
		ServiceID:  current.ServiceID,
		Date:       current.Date,
		StartTime:  current.StartTime,
	}

	if req.ProviderID != nil {
		target.ProviderID = *req.ProviderID
	}

	if req.ServiceID != nil {
		target.ServiceID = *req.ServiceID
	}

	if req.Date != nil {
		day, err := parseDate(*req.Date)
		if err != nil {
			return target, err
		}

		target.Date = day
	}

	if req.StartTime != nil {
		start, err := parseStart(*req.StartTime)
		if err != nil {
			return target, err
		}

		target.StartTime = start
	}

	return target, nil
}

func checkSlot(place placement, start gModel.TimeOfDay) error {
	if !slot.Contains(place.room.Window(), place.duration(), start.Duration()) {
		return failure.InvalidSlot(fmt.Sprintf("%s is not a bookable start time in %s", start, place.room.Name)) // nolint:wrapcheck
	}

	return nil
}

func parseDate(value string) (time.Time, error) {
	day, err := timezone.Parse(constant.DayFormat, value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("date must be YYYY-MM-DD") // nolint:wrapcheck
	}

	return day, nil
}

func parseStart(value string) (gModel.TimeOfDay, error) {
	start, err := gModel.ParseTimeOfDay(value)
	if err != nil {
		return 0, failure.BadRequestFromString("start_time must be HH:MM") // nolint:wrapcheck
	}

	return start, nil
}

func eventOf(kind string, reservation model.Reservation, at time.Time) events.Event {
	return events.Event{
		Type:          kind,
		ReservationID: reservation.ID,
		RoomID:        reservation.RoomID,
		ProviderID:    reservation.ProviderID,
		ServiceID:     reservation.ServiceID,
		ClientID:      reservation.ClientID,
		Date:          reservation.Date.Format(constant.DayFormat),
		StartTime:     reservation.StartTime.String(),
		OccurredAt:    at,
	}
}
