// Package cache держит подключение к Redis и счётчики фиксированных окон
// для ограничения частоты запросов.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/settlement-gateway/internal/config"
)

// Cache — клиент Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.Redis) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Incr увеличивает счётчик key и возвращает новое значение и оставшееся время жизни.
// Счётчику без срока жизни ставится window.
func (c *Cache) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	const op = "cache.Incr"

	n, err := c.Db.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	ttl, err := c.Db.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if ttl < 0 {
		if err := c.Db.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", op, err)
		}
		ttl = window
	}
	return n, ttl, nil
}

// Close закрывает соединение.
func (c *Cache) Close() error {
	return c.Db.Close()
}
