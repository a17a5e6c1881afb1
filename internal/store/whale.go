package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/0xRichardL/whale-tracker/internal/domain"
)

// WhaleStore holds dynamically registered whales in a Redis set, alongside
// the static env-configured list.
type WhaleStore struct {
	client *redis.Client
	key    string
}

func NewWhaleStore(client *redis.Client, key string) *WhaleStore {
	return &WhaleStore{client: client, key: key}
}

// Add stores a whale in the configured Redis set.
func (s *WhaleStore) Add(ctx context.Context, w domain.Whale) error {
	if s.key == "" {
		return fmt.Errorf("whale set key is not configured")
	}
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal whale: %w", err)
	}
	if err := s.client.SAdd(ctx, s.key, string(data)).Err(); err != nil {
		return fmt.Errorf("redis SADD %s: %w", s.key, err)
	}
	return nil
}

// List loads all whales from the Redis set. Redis sets are unordered, so
// the result is sorted by name then address for a stable report order.
func (s *WhaleStore) List(ctx context.Context) ([]domain.Whale, error) {
	if s.key == "" {
		return nil, fmt.Errorf("whale set key is not configured")
	}
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SMEMBERS %s: %w", s.key, err)
	}

	res := make([]domain.Whale, 0, len(members))
	for _, m := range members {
		var w domain.Whale
		if err := json.Unmarshal([]byte(m), &w); err != nil {
			// Skip malformed entries but continue.
			continue
		}
		if w.Address == "" {
			continue
		}
		res = append(res, w)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].Address < res[j].Address
	})
	return res, nil
}
