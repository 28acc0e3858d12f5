// Package cache хранит недавно созданные заказы в Redis, чтобы их можно было
// отдать по order ID без обращения к базе и провайдеру.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/license-checkout/internal/config"
	"github.com/magabrotheeeer/license-checkout/internal/models"
)

const orderKeyPrefix = "order:"

// Cache обёртка над клиентом Redis с сериализацией в JSON.
type Cache struct {
	Db       *redis.Client
	orderTTL time.Duration
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db, orderTTL: cfg.OrderTTL}, nil
}

// Get читает значение по ключу. Второй результат false, если ключа нет.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в JSON с указанным временем жизни.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = c.Db.Set(ctx, key, jsonData, expiration).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.Db.Del(ctx, key).Err()
}

// SetOrder кладёт заказ в кэш на orderTTL.
func (c *Cache) SetOrder(ctx context.Context, order *models.OrderRecord) error {
	return c.Set(ctx, orderKeyPrefix+order.OrderID, order, c.orderTTL)
}

// GetOrder возвращает заказ из кэша, nil если его там нет.
func (c *Cache) GetOrder(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	var order models.OrderRecord
	found, err := c.Get(ctx, orderKeyPrefix+orderID, &order)
	if err != nil || !found {
		return nil, err
	}
	return &order, nil
}

// InvalidateOrder удаляет заказ из кэша, например после смены статуса.
func (c *Cache) InvalidateOrder(ctx context.Context, orderID string) error {
	return c.Invalidate(ctx, orderKeyPrefix+orderID)
}

func (c *Cache) Close() error {
	return c.Db.Close()
}
