package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"welcome/pkg/domain"
)

const cardKeyPrefix = "card:"

// RedisStore keeps each card in a hash. HSET and HGETALL run in one
// MULTI/EXEC so the returned card includes exactly this merge.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedis constructs a Redis-backed profile store.
func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) cardKey(key domain.AttendeeKey) string {
	return cardKeyPrefix + key.String()
}

func (s *RedisStore) Get(ctx context.Context, key domain.AttendeeKey) (domain.Card, error) {
	fields, err := s.client.HGetAll(ctx, s.cardKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return domain.Card(fields).Clone(), nil
}

func (s *RedisStore) Merge(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error) {
	k := s.cardKey(key)
	var all *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(updates) > 0 {
			args := make([]any, 0, len(updates)*2)
			for _, name := range updates.Fields() {
				args = append(args, name, updates[name])
			}
			pipe.HSet(ctx, k, args...)
		}
		all = pipe.HGetAll(ctx, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("merge card: %w", err)
	}
	return domain.Card(all.Val()).Clone(), nil
}

var _ Store = (*RedisStore)(nil)
