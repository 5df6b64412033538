package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maps"
	"salon/config"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/client/model"
	"salon/internal/domains/client/model/dto"
	"salon/internal/domains/client/repository"
	userModel "salon/internal/domains/user/model"
	userRepo "salon/internal/domains/user/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/password"
	"salon/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheClientByUser = "client:user"

type Client interface {
	Register(ctx context.Context, req dto.RegisterClientRequest) (dto.ClientResponse, error)
	Profile(ctx context.Context, userID string) (dto.ClientResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateClientRequest) (dto.ClientResponse, error)
	// ByUser returns the client profile id of a user, or "" when the user has none.
	ByUser(ctx context.Context, userID string) (string, error)
}

type serviceImpl struct {
	repo     repository.Client
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Client, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Client {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Register creates the user and its client profile in one transaction.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterClientRequest) (res dto.ClientResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".client.Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.userRepo.Exist(ctx, shared.FilterEq(userModel.TableName, userModel.FieldEmail, req.User.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if email is registered")

		return res, fmt.Errorf("failed to check if email is registered: %w", err)
	}

	if exists {
		return res, failure.Conflict("email already registered") // nolint:wrapcheck
	}

	exists, err = s.userRepo.Exist(ctx, shared.FilterEq(userModel.TableName, userModel.FieldUsername, req.User.Username))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if username is taken")

		return res, fmt.Errorf("failed to check if username is taken: %w", err)
	}

	if exists {
		return res, failure.Conflict("username already taken") // nolint:wrapcheck
	}

	hashed, err := password.Hash(req.User.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	now := timezone.Now()
	user := req.ToUserModel(hashed, now)

	client, err := req.ToModel(user.ID, now)
	if err != nil {
		return res, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Insert(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if err := s.repo.Insert(ctx, client); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		return nil
	})
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return res, failure.Conflict("user already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("email", req.User.Email).Msg("failed to register client")

		return res, fmt.Errorf("failed to register client: %w", err)
	}

	log.Info().Str("client_id", client.ID).Msg("client registered")

	res.FromModel(client, user)

	return res, nil
}

func (s *serviceImpl) Profile(ctx context.Context, userID string) (res dto.ClientResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".client.Profile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	client, user, err := s.load(ctx, userID)
	if err != nil {
		return res, err
	}

	res.FromModel(client, user)

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, userID string, req dto.UpdateClientRequest) (res dto.ClientResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".client.UpdateProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("nothing to update") // nolint:wrapcheck
	}

	client, _, err := s.load(ctx, userID)
	if err != nil {
		return res, err
	}

	clientChanges, err := req.Changes()
	if err != nil {
		return res, err
	}

	userChanges := map[string]any{}
	if req.User != nil {
		userChanges = req.User.Changes()
	}

	now := timezone.Now()
	stamp := map[string]any{constant.FieldModifiedAt: now, constant.FieldModifiedBy: userID}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if len(userChanges) > 0 {
			maps.Copy(userChanges, stamp)

			if _, err := s.userRepo.Update(ctx, userChanges,
				shared.FilterByID(userID, userModel.FieldID, userModel.TableName)); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		if len(clientChanges) > 0 {
			maps.Copy(clientChanges, stamp)

			if _, err := s.repo.Update(ctx, clientChanges,
				shared.FilterByID(client.ID, model.FieldID, model.TableName)); err != nil {
				return fmt.Errorf("failed to update client: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return res, failure.Conflict("username or email already in use") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("user_id", userID).Msg("failed to update client profile")

		return res, fmt.Errorf("failed to update client profile: %w", err)
	}

	return s.Profile(ctx, userID)
}

// ByUser resolves the client profile of a user, or "" for users without one. Only hits are cached.
func (s *serviceImpl) ByUser(ctx context.Context, userID string) (res string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".client.ByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKey(cacheClientByUser, userID)

	return cache.Through(ctx, s.cache, key, s.cfg.Cache.TTL,
		func(ctx context.Context) (string, error) {
			client, err := s.repo.Get(ctx, shared.FilterEq(model.TableName, model.FieldUserID, userID), model.FieldID)
			if err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("failed to get client of user")

				return constant.Empty, fmt.Errorf("get client of user %s: %w", userID, err)
			}

			return client.ID, nil
		},
		func(id string) bool { return id != constant.Empty },
	)
}

func (s *serviceImpl) load(ctx context.Context, userID string) (model.Client, userModel.User, error) {
	client, err := s.repo.Get(ctx, shared.FilterEq(model.TableName, model.FieldUserID, userID))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get client")

		return client, userModel.User{}, fmt.Errorf("failed to get client: %w", err)
	}

	if client.ID == constant.Empty {
		return client, userModel.User{}, failure.NotFound("client profile not found") // nolint:wrapcheck
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get user")

		return client, user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return client, user, failure.NotFound("user not found") // nolint:wrapcheck
	}

	return client, user, nil
}
