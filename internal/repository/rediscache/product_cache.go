// Package rediscache holds Redis-backed read caches in front of the MongoDB
// repositories.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Michael-Parekh/proshop/internal/domain"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

const topProductsKey = "products:top"

// ProductCache caches the top-rated product carousel, which is read on every
// home page load and changes only when reviews land.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a Redis-backed product cache.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

// GetTop retrieves the cached top products list.
func (c *ProductCache) GetTop(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, topProductsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cache entry", topProductsKey)
		}
		return nil, fmt.Errorf("redis get top products: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal top products: %w", err)
	}

	return products, nil
}

// SetTop caches the top products list with the configured TTL.
func (c *ProductCache) SetTop(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal top products: %w", err)
	}

	if err := c.client.Set(ctx, topProductsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set top products: %w", err)
	}

	return nil
}

// InvalidateTop drops the cached top products list.
func (c *ProductCache) InvalidateTop(ctx context.Context) error {
	if err := c.client.Del(ctx, topProductsKey).Err(); err != nil {
		return fmt.Errorf("redis del top products: %w", err)
	}
	return nil
}
