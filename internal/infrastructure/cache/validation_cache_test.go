package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/cache"
)

func newCache(t *testing.T) (*cache.RedisValidationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisValidationCache(client, 10*time.Minute), mr
}

func TestRedisValidationCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, ok, err := c.Get(ctx, "VX-AAAA-BBBB")
	require.NoError(t, err)
	assert.False(t, ok)

	v := &dto.ValidationResponse{Code: "VX-AAAA-BBBB", Valid: true, Status: "active", CompanyName: "Acme"}
	require.NoError(t, c.Set(ctx, "VX-AAAA-BBBB", v))
	assert.True(t, mr.Exists(cache.KeyPrefix+"VX-AAAA-BBBB"))
	assert.Equal(t, 10*time.Minute, mr.TTL(cache.KeyPrefix+"VX-AAAA-BBBB"))

	got, ok, err := c.Get(ctx, "VX-AAAA-BBBB")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v, got)

	require.NoError(t, c.Invalidate(ctx, "VX-AAAA-BBBB"))
	_, ok, err = c.Get(ctx, "VX-AAAA-BBBB")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisValidationCache_InvalidateCompany(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	for _, v := range []*dto.ValidationResponse{
		{Code: "VX-AAAA-BBBB", CompanySlug: "andina", CompanyName: "Academia Andina"},
		{Code: "VX-CCCC-DDDD", CompanySlug: "andina", CompanyName: "Academia Andina"},
		{Code: "VX-EEEE-FFFF", CompanySlug: "otra", CompanyName: "Otra"},
	} {
		require.NoError(t, c.Set(ctx, v.Code, v))
	}
	assert.Equal(t, 10*time.Minute, mr.TTL(cache.CompanyKeyPrefix+"andina"))

	require.NoError(t, c.InvalidateCompany(ctx, "andina"))

	for code, want := range map[string]bool{"VX-AAAA-BBBB": false, "VX-CCCC-DDDD": false, "VX-EEEE-FFFF": true} {
		_, ok, err := c.Get(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, want, ok, code)
	}
	assert.False(t, mr.Exists(cache.CompanyKeyPrefix+"andina"))
	assert.NoError(t, c.InvalidateCompany(ctx, "sin-cache"), "empresa sin entradas")
}

func TestRedisValidationCache_Expira(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	require.NoError(t, c.Set(ctx, "VX-AAAA-BBBB", &dto.ValidationResponse{Code: "VX-AAAA-BBBB"}))

	mr.FastForward(11 * time.Minute)

	_, ok, err := c.Get(ctx, "VX-AAAA-BBBB")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisValidationCache_ServidorCaido(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()
	_, _, err := c.Get(context.Background(), "VX-AAAA-BBBB")
	assert.Error(t, err)
}

func TestNoopValidationCache(t *testing.T) {
	var c cache.NoopValidationCache
	_, ok, err := c.Get(context.Background(), "x")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Set(context.Background(), "x", &dto.ValidationResponse{}))
	assert.NoError(t, c.Invalidate(context.Background(), "x"))
	assert.NoError(t, c.InvalidateCompany(context.Background(), "x"))
}
