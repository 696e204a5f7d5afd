package redis

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("cache miss")

// IRedis fronts the hot poll-path lookups: active rule sets per merchant
// and the selected widget per (merchant, intent). Values are cached as
// JSON blobs with a short TTL and invalidated by writes.
type IRedis interface {
	SetJSON(ctx context.Context, key string, payload []byte, expiration time.Duration) error
	GetJSON(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Warn("Redis ping failed, cache will degrade to store reads")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetJSON(ctx context.Context, key string, payload []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, payload, expiration).Err()
}

func (r *redisClient) GetJSON(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return val, nil
}

func (r *redisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func RuleSetKey(merchantID string) string {
	return "kwik:rules:" + merchantID
}

func WidgetKey(merchantID, intentType string) string {
	return "kwik:widget:" + merchantID + ":" + intentType
}
