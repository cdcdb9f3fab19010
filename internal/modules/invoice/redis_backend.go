package invoice

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "taxi123:invoices"

// RedisBackend stores the same JSON document as the file backend under a
// single key.
type RedisBackend struct {
	redis *redis.Client
	key   string
}

func NewRedisBackend(client *redis.Client, key string) *RedisBackend {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{redis: client, key: key}
}

func (b *RedisBackend) Load(ctx context.Context) ([]Invoice, error) {
	data, err := b.redis.Get(ctx, b.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeInvoices(data)
}

func (b *RedisBackend) Save(ctx context.Context, invoices []Invoice) error {
	data, err := encodeInvoices(invoices)
	if err != nil {
		return err
	}
	return b.redis.Set(ctx, b.key, data, 0).Err()
}
