package catalog

import (
	"net/http"
	"salon/infras/otel"
	"salon/internal/domains/catalog/model"
	"salon/internal/domains/catalog/model/dto"
	"salon/internal/domains/catalog/service"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/services", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetServices)
		routerGroup.Get("/{id}/providers", handler.GetProvidersForService)
	})

	router.Get("/providers", handler.GetProviders)
}

// GetServices lists the salon services.
// @Summary Get all services
// @Tags Catalog
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetServicesResponse] "List of services"
// @Failure 500 {object} response.Error
// @Router /v1/services [get]
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.FieldName, constant.FieldCreatedAt)

	var services dto.GetServicesResponse

	services, err := handler.service.GetServices(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// GetProvidersForService lists the providers able to perform a service, with their rooms and services.
// @Summary Get providers for a service
// @Tags Catalog
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Data[[]dto.ProviderResponse] "Providers"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/{id}/providers [get]
func (handler *Handler) GetProvidersForService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProvidersForService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	providers, err := handler.service.EmployeesForService(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("service_id", id).Msg("failed to get providers for service")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, providers)
}

// GetProviders lists all providers.
// @Summary Get all providers
// @Tags Catalog
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetProvidersResponse] "List of providers"
// @Failure 500 {object} response.Error
// @Router /v1/providers [get]
func (handler *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProviders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(constant.FieldCreatedAt)

	if queryParams.SortBy != "" {
		queryParams.SortBy = model.ProviderTableName + "." + queryParams.SortBy
	}

	providers, err := handler.service.GetProviders(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get providers")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, providers)
}
