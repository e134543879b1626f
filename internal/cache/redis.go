package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/periodic-tables/config"
	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/redis/go-redis/v9"
)

const tablesKey = "cache:tables"

type RedisCache struct {
	client    redis.Cmdable
	tablesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		time.Duration(cfg.TablesTTLSecond)*time.Second,
	)
}

func NewRedisCacheWithClient(client redis.Cmdable, tablesTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, tablesTTL: tablesTTL}
}

// GetTables returns nil, nil on a cache miss.
func (c *RedisCache) GetTables(ctx context.Context) ([]domain.Table, error) {
	data, err := c.client.Get(ctx, tablesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var tables []domain.Table
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *RedisCache) SetTables(ctx context.Context, tables []domain.Table) error {
	payload, err := json.Marshal(tables)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tablesKey, payload, c.tablesTTL).Err()
}

func (c *RedisCache) InvalidateTables(ctx context.Context) error {
	return c.client.Del(ctx, tablesKey).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
