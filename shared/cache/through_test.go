package cache_test

import (
	"context"
	"errors"
	"salon/shared/cache"
	"salon/shared/cache/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestThrough(t *testing.T) {
	t.Run("hit skips the loader", func(t *testing.T) {
		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(gomock.Any(), "k", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			*(value.(*int)) = 7

			return nil
		})

		got, err := cache.Through(context.Background(), c, "k", 10, func(context.Context) (int, error) {
			t.Fatal("loader called on a hit")

			return 0, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("miss loads and writes back", func(t *testing.T) {
		saved := make(chan struct{})

		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(gomock.Any(), "k", gomock.Any()).Return(cache.Nil)
		c.EXPECT().Save(gomock.Any(), "k", 3, 10).DoAndReturn(func(context.Context, string, any, int) error {
			close(saved)

			return nil
		})

		got, err := cache.Through(context.Background(), c, "k", 10, func(context.Context) (int, error) { return 3, nil })
		require.NoError(t, err)
		assert.Equal(t, 3, got)

		select {
		case <-saved:
		case <-time.After(time.Second):
			t.Fatal("value was not written back")
		}
	})

	t.Run("loader error is returned and nothing is stored", func(t *testing.T) {
		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)

		_, err := cache.Through(context.Background(), c, "k", 10, func(context.Context) (int, error) {
			return 0, errors.New("db down")
		})
		assert.EqualError(t, err, "db down")
	})

	t.Run("rejected values are not stored", func(t *testing.T) {
		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)

		got, err := cache.Through(context.Background(), c, "k", 10,
			func(context.Context) (string, error) { return "", nil },
			func(v string) bool { return v != "" },
		)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
