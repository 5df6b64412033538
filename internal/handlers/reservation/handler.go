package reservation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"salon/infras/otel"
	clientService "salon/internal/domains/client/service"
	"salon/internal/domains/reservation/model"
	"salon/internal/domains/reservation/model/dto"
	"salon/internal/domains/reservation/service"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/validator"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

// listFilters maps the list query parameters onto reservation columns.
var listFilters = []struct {
	param string
	field string
}{
	{constant.RequestParamClient, model.FieldClientID},
	{constant.RequestParamProvider, model.FieldProviderID},
	{constant.RequestParamStatus, model.FieldStatus},
	{constant.RequestParamDate, model.FieldDate},
}

type Handler struct {
	service service.Reservation
	clients clientService.Client
	otel    otel.Otel
}

func New(service service.Reservation, clients clientService.Client, otel otel.Otel) Handler {
	return Handler{
		service: service,
		clients: clients,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.GetAvailability)

	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/mine", handler.GetMyReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Patch("/{id}", handler.UpdateReservation)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
	})
}

// actor resolves the caller from the claims the auth middleware put in the context.
func (handler *Handler) actor(ctx context.Context) (dto.Actor, error) {
	actor := dto.Actor{}
	actor.UserID, _ = ctx.Value(constant.ContextKeyUserID).(string)
	actor.Role, _ = ctx.Value(constant.ContextKeyUserRole).(string)

	if !actor.IsClient() {
		return actor, nil
	}

	clientID, err := handler.clients.ByUser(ctx, actor.UserID)
	if err != nil {
		return actor, fmt.Errorf("failed to resolve client of user: %w", err)
	}

	actor.ClientID = clientID

	return actor, nil
}

// validIDs rejects id query parameters that are present but not UUIDs.
func validIDs(query url.Values, params ...string) error {
	for _, param := range params {
		if value := query.Get(param); value != constant.Empty {
			if err := validator.ValidateVar(value, "uuid"); err != nil {
				return failure.BadRequestFromString(param + " must be a valid UUID") // nolint:wrapcheck
			}
		}
	}

	return nil
}

// GetAvailability lists the free start times of a provider for a service on a day.
// @Summary Get available slots
// @Description Start times ("HH:MM") at which the room has a free seat and the service fits the window.
// @Tags Reservation
// @Produce json
// @Param provider_id query string true "Provider ID"
// @Param service_id query string true "Service ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Available slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	query := r.URL.Query()
	for _, param := range []string{constant.RequestParamProvider, constant.RequestParamService, constant.RequestParamDate} {
		if query.Get(param) == constant.Empty {
			err := failure.BadRequestFromString(param + " is required")
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
	}

	if err := validIDs(query, constant.RequestParamProvider, constant.RequestParamService); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	providerID := query.Get(constant.RequestParamProvider)
	serviceID := query.Get(constant.RequestParamService)

	var slots dto.AvailabilityResponse

	slots, err := handler.service.Availability(ctx, providerID, serviceID, query.Get(constant.RequestParamDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("provider_id", providerID).Str("service_id", serviceID).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}

// CreateReservation books a slot.
// @Summary Create a reservation
// @Description Books a seat in the room the provider performs the service in. Clients always book for themselves.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CommitRequest true "Reservation"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Reservation created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CommitRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, err := handler.actor(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Commit(ctx, actor, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation " + reservation.ID + " created by user " + actor.UserID)

	response.WithJSON(w, http.StatusCreated, reservation)
}

// GetReservations lists reservations for staff, optionally filtered.
// @Summary Get all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param client_id query string false "Filter by client ID"
// @Param provider_id query string false "Filter by provider ID"
// @Param status query string false "Filter by status (scheduled, completed)"
// @Param date query string false "Filter by day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetVisitsResponse] "Reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	if status := query.Get(constant.RequestParamStatus); status != constant.Empty {
		if err := validator.ValidateVar(status, "oneof=scheduled completed"); err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}
	}

	if date := query.Get(constant.RequestParamDate); date != constant.Empty {
		if err := validator.ValidateVar(date, "datetime=2006-01-02"); err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}
	}

	if err := validIDs(query, constant.RequestParamClient, constant.RequestParamProvider); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	filterGroup := gDto.And()

	for _, column := range listFilters {
		if value := query.Get(column.param); value != constant.Empty {
			filterGroup = filterGroup.Add(gDto.Eq(model.TableName, column.field, value))
		}
	}

	reservations, err := handler.service.List(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetMyReservations lists the calling client's reservations.
// @Summary Get my reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetVisitsResponse] "Reservations"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	actor, err := handler.actor(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if actor.ClientID == constant.Empty {
		err := failure.Forbidden("client profile required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	reservations, err := handler.service.ListByClient(ctx, actor.ClientID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("client_id", actor.ClientID).Msg("failed to get client reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	actor, err := handler.actor(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Get(ctx, id, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to get reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// UpdateReservation re-targets a reservation to another provider, service, day or start time.
// @Summary Update a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Patch"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation updated"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor, err := handler.actor(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Update(ctx, id, actor, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to update reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// DeleteReservation cancels a reservation and frees its seat.
// @Summary Delete a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation deleted"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	actor, err := handler.actor(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id, actor); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to delete reservation")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}
