package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	return NewCache(client, instrument.NewNoop())
}

func TestCachePutGetDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	issuedAt := time.Now().Truncate(time.Millisecond)
	otp := entity.OTP{Email: "user@example.com", Code: "123456", IssuedAt: issuedAt}

	require.NoError(t, c.Put(ctx, otp, time.Minute))

	got, err := c.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, "user@example.com", got.Email)
	assert.True(t, got.IssuedAt.Equal(issuedAt))

	require.NoError(t, c.Delete(ctx, "user@example.com"))

	_, err = c.Get(ctx, "user@example.com")
	assert.True(t, errors.Is(err, goerror.ErrNotFound))
}

func TestCachePutOverwrites(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	first := entity.OTP{Email: "user@example.com", Code: "111111", IssuedAt: time.Now().Add(-time.Minute)}
	require.NoError(t, c.Put(ctx, first, time.Minute))

	second := entity.OTP{Email: "user@example.com", Code: "222222", IssuedAt: time.Now()}
	require.NoError(t, c.Put(ctx, second, time.Minute))

	got, err := c.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
}

func TestCacheGetMissing(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, goerror.ErrNotFound))
}

func TestCacheTTLExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	otp := entity.OTP{Email: "user@example.com", Code: "123456", IssuedAt: time.Now()}
	require.NoError(t, c.Put(ctx, otp, time.Second))

	require.Eventually(t, func() bool {
		_, err := c.Get(ctx, "user@example.com")
		return errors.Is(err, goerror.ErrNotFound)
	}, 5*time.Second, 200*time.Millisecond)
}

func TestCacheDeleteMissing(t *testing.T) {
	c := newTestCache(t)

	assert.NoError(t, c.Delete(context.Background(), "nobody@example.com"))
}
