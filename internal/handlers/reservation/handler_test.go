package reservation_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "salon/infras/otel/mocks"
	clientMocks "salon/internal/domains/client/service/mocks"
	"salon/internal/domains/reservation/model/dto"
	serviceMocks "salon/internal/domains/reservation/service/mocks"
	"salon/internal/handlers/reservation"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	providerA = "0b6f3f52-8f0e-4d8c-9a55-0e7c2b1d6a01"
	serviceA  = "5d1c9e7a-3b42-4f6e-8c1d-2a9b7e4f0c11"
	serviceB  = "5d1c9e7a-3b42-4f6e-8c1d-2a9b7e4f0c12"
	clientA   = "9a2e4c6b-1d3f-4e5a-b7c9-d0e1f2a3b4c5"
)

type fixture struct {
	service *serviceMocks.MockReservation
	clients *clientMocks.MockClient
	router  chi.Router
}

// newFixture mounts the handler the way the router does, with the claims the auth
// middleware would have stored.
func newFixture(t *testing.T, userID, role string) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		service: serviceMocks.NewMockReservation(ctrl),
		clients: clientMocks.NewMockClient(ctrl),
		router:  chi.NewRouter(),
	}

	handler := reservation.New(f.service, f.clients, otelMocks.NewOtel())

	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	f.router.Route("/v1", handler.Router)

	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_GetAvailability(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(f fixture)
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:  "lists slots",
			query: "?provider_id=" + providerA + "&service_id=" + serviceA + "&date=2025-01-06",
			setup: func(f fixture) {
				f.service.EXPECT().Availability(gomock.Any(), providerA, serviceA, "2025-01-06").
					Return(dto.AvailabilityResponse{ProviderID: providerA, ServiceID: serviceA, Slots: []string{"09:00", "09:30"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedSubstr: `"slots":["09:00","09:30"]`,
		},
		{
			name:           "missing date",
			query:          "?provider_id=" + providerA + "&service_id=" + serviceA,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "date is required",
		},
		{
			name:  "provider does not perform the service",
			query: "?provider_id=" + providerA + "&service_id=" + serviceB + "&date=2025-01-06",
			setup: func(f fixture) {
				f.service.EXPECT().Availability(gomock.Any(), providerA, serviceB, "2025-01-06").
					Return(dto.AvailabilityResponse{}, failure.NoCapabilityLink())
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "provider id is not a uuid",
			query:          "?provider_id=p1&service_id=" + serviceA + "&date=2025-01-06",
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "provider_id must be a valid UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", "")
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.do(http.MethodGet, "/v1/availability"+tt.query, "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestHandler_CreateReservation(t *testing.T) {
	validBody := `{"provider_id":"` + providerA + `","service_id":"` + serviceA + `","date":"2025-01-06","start_time":"09:30"}`

	tests := []struct {
		name           string
		role           string
		body           string
		setup          func(f fixture)
		expectedStatus int
		expectedSubstr string
	}{
		{
			name: "client books for their own profile",
			role: constant.RoleClient,
			body: validBody,
			setup: func(f fixture) {
				f.clients.EXPECT().ByUser(gomock.Any(), "user-1").Return("client-1", nil)
				f.service.EXPECT().Commit(gomock.Any(), dto.Actor{UserID: "user-1", Role: constant.RoleClient, ClientID: "client-1"}, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ dto.Actor, req dto.CommitRequest) (dto.ReservationResponse, error) {
						assert.Equal(t, "09:30", req.StartTime)

						return dto.ReservationResponse{ID: "r1", StartTime: req.StartTime}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"r1"`,
		},
		{
			name: "staff never resolves a client profile",
			role: constant.RoleStaff,
			body: validBody,
			setup: func(f fixture) {
				f.service.EXPECT().Commit(gomock.Any(), dto.Actor{UserID: "user-1", Role: constant.RoleStaff}, gomock.Any()).
					Return(dto.ReservationResponse{ID: "r2"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed start time",
			role:           constant.RoleStaff,
			body:           `{"provider_id":"` + providerA + `","service_id":"` + serviceA + `","date":"2025-01-06","start_time":"9.30am"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown client id that is not a uuid",
			role:           constant.RoleStaff,
			body:           `{"provider_id":"` + providerA + `","service_id":"` + serviceA + `","date":"2025-01-06","start_time":"09:30","client_id":"no-such-client"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "client id that does not exist",
			role: constant.RoleStaff,
			body: `{"provider_id":"` + providerA + `","service_id":"` + serviceA + `","date":"2025-01-06","start_time":"09:30","client_id":"` + clientA + `"}`,
			setup: func(f fixture) {
				f.service.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.ReservationResponse{}, failure.NotFound("client not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed json",
			role:           constant.RoleStaff,
			body:           `{"provider_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "room full",
			role: constant.RoleStaff,
			body: validBody,
			setup: func(f fixture) {
				f.service.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.ReservationResponse{}, failure.CapacityExceeded())
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "client lookup failure",
			role: constant.RoleClient,
			body: validBody,
			setup: func(f fixture) {
				f.clients.EXPECT().ByUser(gomock.Any(), "user-1").Return("", errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "user-1", tt.role)
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.do(http.MethodPost, "/v1/reservations", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}
}

func TestHandler_GetReservations(t *testing.T) {
	t.Run("query parameters become reservation filters", func(t *testing.T) {
		f := newFixture(t, "staff-1", constant.RoleStaff)

		f.service.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVisitsResponse, error) {
				assert.Equal(t, 2, req.Page)
				require.Len(t, filter.Filters, 2)

				clientFilter, ok := filter.Filters[0].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, "client_id", clientFilter.Field)
				assert.Equal(t, clientA, clientFilter.Value)

				statusFilter, ok := filter.Filters[1].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, "status", statusFilter.Field)

				return dto.GetVisitsResponse{TotalData: 1}, nil
			})

		rec := f.do(http.MethodGet, "/v1/reservations/?client_id="+clientA+"&status=completed&page=2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("client id is not a uuid", func(t *testing.T) {
		f := newFixture(t, "staff-1", constant.RoleStaff)

		rec := f.do(http.MethodGet, "/v1/reservations/?client_id=c1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t, "staff-1", constant.RoleStaff)

		rec := f.do(http.MethodGet, "/v1/reservations/?status=cancelled", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetMyReservations(t *testing.T) {
	t.Run("lists the caller's reservations", func(t *testing.T) {
		f := newFixture(t, "user-1", constant.RoleClient)
		f.clients.EXPECT().ByUser(gomock.Any(), "user-1").Return("client-1", nil)
		f.service.EXPECT().ListByClient(gomock.Any(), "client-1", gomock.Any()).Return(dto.GetVisitsResponse{}, nil)

		rec := f.do(http.MethodGet, "/v1/reservations/mine", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user without client profile", func(t *testing.T) {
		f := newFixture(t, "user-1", constant.RoleClient)
		f.clients.EXPECT().ByUser(gomock.Any(), "user-1").Return("", nil)

		rec := f.do(http.MethodGet, "/v1/reservations/mine", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandler_ReservationByID(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		setup          func(f fixture)
		expectedStatus int
	}{
		{
			name:   "get",
			method: http.MethodGet,
			setup: func(f fixture) {
				f.service.EXPECT().Get(gomock.Any(), "r1", gomock.Any()).Return(dto.ReservationResponse{ID: "r1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "get someone else's reservation",
			method: http.MethodGet,
			setup: func(f fixture) {
				f.service.EXPECT().Get(gomock.Any(), "r1", gomock.Any()).Return(dto.ReservationResponse{}, failure.ResourceRestrictedError)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "patch start time",
			method: http.MethodPatch,
			body:   `{"start_time":"10:00"}`,
			setup: func(f fixture) {
				f.service.EXPECT().Update(gomock.Any(), "r1", gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _ dto.Actor, req dto.UpdateReservationRequest) (dto.ReservationResponse, error) {
						require.NotNil(t, req.StartTime)
						assert.Equal(t, "10:00", *req.StartTime)
						assert.Nil(t, req.ProviderID)

						return dto.ReservationResponse{ID: "r1", StartTime: "10:00"}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "patch provider with a non-uuid id",
			method:         http.MethodPatch,
			body:           `{"provider_id":"p2"}`,
			setup:          func(fixture) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "patch to a slot outside the window",
			method: http.MethodPatch,
			body:   `{"start_time":"19:00"}`,
			setup: func(f fixture) {
				f.service.EXPECT().Update(gomock.Any(), "r1", gomock.Any(), gomock.Any()).
					Return(dto.ReservationResponse{}, failure.InvalidSlot("19:00 is not an available slot"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			setup: func(f fixture) {
				f.service.EXPECT().Delete(gomock.Any(), "r1", gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "delete missing reservation",
			method: http.MethodDelete,
			setup: func(f fixture) {
				f.service.EXPECT().Delete(gomock.Any(), "r1", gomock.Any()).Return(failure.NotFound("reservation not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "staff-1", constant.RoleStaff)
			tt.setup(f)

			rec := f.do(tt.method, "/v1/reservations/r1", tt.body)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
