package client

import (
	"net/http"
	"salon/infras/otel"
	"salon/internal/domains/client/model/dto"
	"salon/internal/domains/client/service"
	"salon/shared/constant"
	"salon/shared/validator"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Client
	otel    otel.Otel
}

func New(service service.Client, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/clients", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Register)
		routerGroup.Get("/me", handler.GetProfile)
		routerGroup.Patch("/me", handler.UpdateProfile)
	})
}

// Register creates a client account.
// @Summary Register a client
// @Description Creates the user and the client profile in one step.
// @Tags Client
// @Accept json
// @Produce json
// @Param request body dto.RegisterClientRequest true "Registration"
// @Success 201 {object} response.Data[dto.ClientResponse] "Client registered"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/clients [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RegisterClient")
	defer scope.End()

	req := dto.RegisterClientRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	client, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register client")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, client)
}

// GetProfile returns the calling user's client profile.
// @Summary Get my client profile
// @Tags Client
// @Produce json
// @Success 200 {object} response.Data[dto.ClientResponse] "Client profile"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/clients/me [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetClientProfile")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	client, err := handler.service.Profile(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get client profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, client)
}

// UpdateProfile applies a partial update to the calling user's client profile.
// @Summary Update my client profile
// @Tags Client
// @Accept json
// @Produce json
// @Param request body dto.UpdateClientRequest true "Patch"
// @Success 200 {object} response.Data[dto.ClientResponse] "Client profile"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/clients/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateClientProfile")
	defer scope.End()

	req := dto.UpdateClientRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	client, err := handler.service.UpdateProfile(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to update client profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, client)
}
