package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"backoffice/internal/domain/models"
)

type RedisCreditNoteCache struct {
	client redis.UniversalClient
}

func NewRedisCreditNoteCache(addr string, password string, db int) *RedisCreditNoteCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCreditNoteCache{client: client}
}

// NewRedisCreditNoteCacheWithClient wraps an existing client.
func NewRedisCreditNoteCacheWithClient(client redis.UniversalClient) *RedisCreditNoteCache {
	return &RedisCreditNoteCache{client: client}
}

func (c *RedisCreditNoteCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCreditNoteCache) Close() error {
	return c.client.Close()
}

func (c *RedisCreditNoteCache) Get(ctx context.Context, supplier string) ([]models.CreditNote, bool, error) {
	val, err := c.client.Get(ctx, SupplierKey(supplier)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var notes []models.CreditNote
	if err := json.Unmarshal([]byte(val), &notes); err != nil {
		return nil, false, err
	}
	return notes, true, nil
}

func (c *RedisCreditNoteCache) Set(ctx context.Context, supplier string, notes []models.CreditNote, ttl time.Duration) error {
	if notes == nil {
		notes = []models.CreditNote{}
	}
	payload, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, SupplierKey(supplier), payload, ttl).Err()
}

func (c *RedisCreditNoteCache) Invalidate(ctx context.Context, suppliers ...string) error {
	if len(suppliers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		keys = append(keys, SupplierKey(s))
	}
	return c.client.Del(ctx, keys...).Err()
}
