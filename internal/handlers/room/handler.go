package room

import (
	"net/http"
	"salon/infras/otel"
	"salon/internal/domains/room/model"
	"salon/internal/domains/room/model/dto"
	"salon/internal/domains/room/service"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/validator"
	"salon/transport/http/response"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const requestParamMinCapacity = "min_capacity"

var sortableColumns = []string{model.FieldName, model.FieldLocation, model.FieldCapacity, constant.FieldCreatedAt}

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(rooms chi.Router) {
		rooms.Get("/", handler.GetRooms)
		rooms.Get("/{id}", handler.GetRoomByID)
	})
}

// GetRooms lists rooms with their capacity and opening hours.
// @Summary List rooms
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Case-insensitive match on the room name"
// @Param location query string false "Case-insensitive match on the location"
// @Param min_capacity query int false "Only rooms seating at least this many clients"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)
	params.RestrictSort(sortableColumns...)

	filter, err := roomFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	var rooms dto.GetRoomsResponse

	if rooms, err = handler.service.GetAll(ctx, params, filter); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list rooms")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

func roomFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()
	filter := gDto.And()

	for _, field := range []string{model.FieldName, model.FieldLocation} {
		if value := query.Get(field); value != constant.Empty {
			filter = filter.Add(gDto.Filter{Table: model.TableName, Field: field, Operator: gDto.FilterOperatorLike, Value: value})
		}
	}

	if value := query.Get(requestParamMinCapacity); value != constant.Empty {
		if err := validator.ValidateVar(value, "number"); err != nil {
			return filter, err //nolint:wrapcheck
		}

		seats, _ := strconv.Atoi(value)
		filter = filter.Add(gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldCapacity,
			ArgName:  requestParamMinCapacity,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    seats,
		})
	}

	return filter, nil
}

// GetRoomByID returns one room.
// @Summary Get a room
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("room_id", id).Msg("failed to get room")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}
