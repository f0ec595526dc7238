package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

type qrValue struct {
	QRCode   string    `json:"qrCode"`
	IssuedAt time.Time `json:"issuedAt"`
}

func qrKey(connectionID string) string {
	return fmt.Sprintf("wa:qr:%s", connectionID)
}

func (c *RedisCache) StoreQR(ctx context.Context, connectionID, qrCode string, issuedAt time.Time) error {
	b, err := json.Marshal(qrValue{
		QRCode:   qrCode,
		IssuedAt: issuedAt.UTC(),
	})
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, qrKey(connectionID), b, c.ttl).Err()
}

func (c *RedisCache) LoadQR(ctx context.Context, connectionID string) (string, bool, error) {
	raw, err := c.rdb.Get(ctx, qrKey(connectionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var v qrValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, fmt.Errorf("decode cached qr: %w", err)
	}
	return v.QRCode, true, nil
}

func (c *RedisCache) Forget(ctx context.Context, connectionID string) error {
	return c.rdb.Del(ctx, qrKey(connectionID)).Err()
}
