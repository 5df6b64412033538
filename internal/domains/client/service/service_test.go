package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"salon/config"
	otelMocks "salon/infras/otel/mocks"
	clientMocks "salon/internal/domains/client/mocks"
	"salon/internal/domains/client/model"
	"salon/internal/domains/client/model/dto"
	"salon/internal/domains/client/service"
	userMocks "salon/internal/domains/user/mocks"
	userModel "salon/internal/domains/user/model"
	userDto "salon/internal/domains/user/model/dto"
	cacheMocks "salon/shared/cache/mocks"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/password"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type deps struct {
	clients *clientMocks.MockClient
	users   *userMocks.MockUser
	cache   *cacheMocks.MockRedisCache
	svc     service.Client
}

func newDeps(t *testing.T) deps {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		clients: clientMocks.NewMockClient(ctrl),
		users:   userMocks.NewMockUser(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	d.svc = service.New(d.clients, d.users, cfg, d.cache, otelMocks.NewOtel())

	return d
}

// runTx makes WithTx call straight through, as the real one does on commit.
func (d deps) runTx() {
	d.clients.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
}

func strPtr(s string) *string {
	return &s
}

func registerRequest() dto.RegisterClientRequest {
	return dto.RegisterClientRequest{
		User: dto.RegisterUserRequest{
			Username:  "ivan",
			Email:     "ivan@example.com",
			FirstName: "Ivan",
			LastName:  "Petrov",
			Password:  "sup3rsecret",
			Password2: "sup3rsecret",
		},
		PhoneNumber: "+70000000000",
		DateOfBirth: strPtr("1990-04-12"),
		Gender:      strPtr(model.GenderMale),
	}
}

func TestClientService_Register(t *testing.T) {
	tests := []struct {
		name     string
		req      func() dto.RegisterClientRequest
		setup    func(t *testing.T, d deps)
		wantCode int
	}{
		{
			name: "creates user and client together",
			req:  registerRequest,
			setup: func(t *testing.T, d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				d.runTx()

				var userID string

				d.users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
					assert.Equal(t, constant.RoleClient, user.Role)
					assert.NoError(t, password.Verify("sup3rsecret", user.Password))

					userID = user.ID

					return nil
				})
				d.clients.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, client model.Client) error {
					assert.Equal(t, userID, client.UserID)
					require.NotNil(t, client.DateOfBirth)
					assert.Equal(t, "1990-04-12", client.DateOfBirth.Format(constant.DayFormat))

					return nil
				})
			},
		},
		{
			name: "email already registered",
			req:  registerRequest,
			setup: func(t *testing.T, d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "username taken",
			req:  registerRequest,
			setup: func(t *testing.T, d deps) {
				gomock.InOrder(
					d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil),
					d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
				)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "client insert failure surfaces and aborts the transaction",
			req:  registerRequest,
			setup: func(t *testing.T, d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				d.runTx()
				d.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				d.clients.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "unique violation from a concurrent registration",
			req:  registerRequest,
			setup: func(t *testing.T, d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				d.runTx()
				d.users.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert data (user): %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation}))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "malformed date of birth",
			req: func() dto.RegisterClientRequest {
				req := registerRequest()
				req.DateOfBirth = strPtr("12.04.1990")

				return req
			},
			setup: func(t *testing.T, d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			tt.setup(t, d)

			res, err := d.svc.Register(context.Background(), tt.req())

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ivan", res.User.Username)
			assert.Equal(t, "+70000000000", res.PhoneNumber)
			require.NotNil(t, res.DateOfBirth)
			assert.Equal(t, "1990-04-12", *res.DateOfBirth)
		})
	}
}

func TestClientService_Profile(t *testing.T) {
	t.Run("missing profile", func(t *testing.T) {
		d := newDeps(t)
		d.clients.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Client{}, nil)

		_, err := d.svc.Profile(context.Background(), "user-1")
		assert.True(t, errors.Is(err, failure.ErrNotFound))
	})

	t.Run("joins user fields", func(t *testing.T) {
		d := newDeps(t)
		d.clients.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Client{ID: "client-1", UserID: "user-1", Phone: "123"}, nil)
		d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "user-1", Username: "ivan"}, nil)

		res, err := d.svc.Profile(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "client-1", res.ID)
		assert.Equal(t, "ivan", res.User.Username)
		assert.Nil(t, res.DateOfBirth)
	})
}

func TestClientService_UpdateProfile(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		d := newDeps(t)

		_, err := d.svc.UpdateProfile(context.Background(), "user-1", dto.UpdateClientRequest{User: &userDto.UpdateUserRequest{}})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("updates user and client columns", func(t *testing.T) {
		d := newDeps(t)

		client := model.Client{ID: "client-1", UserID: "user-1", Phone: "123"}
		user := userModel.User{ID: "user-1", Username: "ivan", FirstName: "Ivan"}

		d.clients.EXPECT().Get(gomock.Any(), gomock.Any()).Return(client, nil).Times(2)
		d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil).Times(2)
		d.runTx()

		d.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, changes map[string]any, _ any) (int, error) {
				assert.Equal(t, "Jan", changes[userModel.FieldFirstName])
				assert.Equal(t, "user-1", changes[constant.FieldModifiedBy])
				assert.IsType(t, time.Time{}, changes[constant.FieldModifiedAt])
				assert.NotContains(t, changes, userModel.FieldPassword)

				return 1, nil
			})
		d.clients.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, changes map[string]any, _ any) (int, error) {
				assert.Equal(t, "456", changes[model.FieldPhone])
				assert.Equal(t, "1991-01-02", changes[model.FieldDateOfBirth])
				assert.NotContains(t, changes, model.FieldUserID)

				return 1, nil
			})

		_, err := d.svc.UpdateProfile(context.Background(), "user-1", dto.UpdateClientRequest{
			User:        &userDto.UpdateUserRequest{FirstName: strPtr("Jan")},
			PhoneNumber: strPtr("456"),
			DateOfBirth: strPtr("1991-01-02"),
		})
		require.NoError(t, err)
	})
}

func TestClientService_ByUser(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), "client:user:user-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*(value.(*string)) = "client-1"

				return nil
			})

		id, err := d.svc.ByUser(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "client-1", id)
	})

	t.Run("cache miss reads and stores", func(t *testing.T) {
		d := newDeps(t)
		saved := make(chan struct{})

		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		d.clients.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Client{ID: "client-1"}, nil)
		d.cache.EXPECT().Save(gomock.Any(), "client:user:user-1", "client-1", 60).
			DoAndReturn(func(context.Context, string, any, int) error {
				close(saved)

				return nil
			})

		id, err := d.svc.ByUser(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "client-1", id)

		select {
		case <-saved:
		case <-time.After(time.Second):
			t.Fatal("client id was not cached")
		}
	})

	t.Run("user without profile", func(t *testing.T) {
		d := newDeps(t)
		d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		d.clients.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Client{}, nil)

		id, err := d.svc.ByUser(context.Background(), "staff-1")
		require.NoError(t, err)
		assert.Empty(t, id)
	})
}
