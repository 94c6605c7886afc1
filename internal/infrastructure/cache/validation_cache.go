// Package cache cachea en Redis la respuesta pública de validación de certificados.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
)

// KeyPrefix prefijo de las claves de validación.
const KeyPrefix = "vaxa:validacion:"

// CompanyKeyPrefix set con los códigos cacheados de cada empresa, por slug.
const CompanyKeyPrefix = "vaxa:validaciones_empresa:"

var (
	_ ports.ValidationCache = (*RedisValidationCache)(nil)
	_ ports.ValidationCache = NoopValidationCache{}
)

// RedisValidationCache implementa ports.ValidationCache con go-redis.
type RedisValidationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient crea el cliente desde REDIS_URL y verifica la conexión.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// NewRedisValidationCache construye el cache con el TTL dado.
func NewRedisValidationCache(client *redis.Client, ttl time.Duration) *RedisValidationCache {
	return &RedisValidationCache{client: client, ttl: ttl}
}

// Get devuelve (nil, false, nil) si la clave no existe.
func (c *RedisValidationCache) Get(ctx context.Context, code string) (*dto.ValidationResponse, bool, error) {
	data, err := c.client.Get(ctx, KeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get: %w", err)
	}
	var v dto.ValidationResponse
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false, fmt.Errorf("redis: decodificar %s: %w", code, err)
	}
	return &v, true, nil
}

// Set guarda la respuesta y anota el código en el set de su empresa; el set vive lo mismo que la última entrada.
func (c *RedisValidationCache) Set(ctx context.Context, code string, v *dto.ValidationResponse) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, KeyPrefix+code, data, c.ttl)
		if v.CompanySlug != "" {
			pipe.SAdd(ctx, CompanyKeyPrefix+v.CompanySlug, code)
			pipe.Expire(ctx, CompanyKeyPrefix+v.CompanySlug, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

func (c *RedisValidationCache) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, KeyPrefix+code).Err()
}

func (c *RedisValidationCache) InvalidateCompany(ctx context.Context, companySlug string) error {
	set := CompanyKeyPrefix + companySlug
	codes, err := c.client.SMembers(ctx, set).Result()
	if err != nil {
		return fmt.Errorf("redis: códigos de %s: %w", companySlug, err)
	}
	keys := make([]string, 0, len(codes)+1)
	for _, code := range codes {
		keys = append(keys, KeyPrefix+code)
	}
	keys = append(keys, set)
	return c.client.Del(ctx, keys...).Err()
}

// NoopValidationCache se usa cuando REDIS_URL no está configurado.
type NoopValidationCache struct{}

func (NoopValidationCache) Get(context.Context, string) (*dto.ValidationResponse, bool, error) {
	return nil, false, nil
}

func (NoopValidationCache) Set(context.Context, string, *dto.ValidationResponse) error { return nil }

func (NoopValidationCache) Invalidate(context.Context, string) error { return nil }

func (NoopValidationCache) InvalidateCompany(context.Context, string) error { return nil }
