package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/formul8/orchestra/internal/ports"
)

var _ ports.DocumentStore = (*RedisStore)(nil)

// RedisStore is a Redis-backed DocumentStore. Documents are JSON
// strings at "collection:key"; lists use RPUSH with LTRIM retention so
// append-and-evict is atomic server-side. A per-collection index set
// backs ListKeys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore over an established client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect dials Redis with bounded exponential backoff, mirroring how
// the rest of the platform's services establish their connections.
func Connect(ctx context.Context, addr, password string, maxRetries int, logger zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	var err error
	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			logger.Info().Dur("backoff", backoff).Msg("waiting before Redis retry")
			time.Sleep(backoff)
		}

		if err = client.Ping(ctx).Err(); err == nil {
			logger.Info().Int("attempts", i+1).Msg("Redis connected")
			return client, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Redis ping failed")
	}
	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}

func redisKey(collection, key string) string { return collection + ":" + key }

func indexKey(collection string) string { return collection + ":_keys" }

// Get loads the document at collection/key into out.
func (s *RedisStore) Get(ctx context.Context, collection, key string, out any) error {
	raw, err := s.client.Get(ctx, redisKey(collection, key)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s/%s", ports.ErrKeyNotFound, collection, key)
	}
	if err != nil {
		return fmt.Errorf("redis get %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding %s/%s: %w", collection, key, err)
	}
	return nil
}

// Put stores the document and records the key in the collection index.
func (s *RedisStore) Put(ctx context.Context, collection, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKey(collection, key), raw, 0)
	pipe.SAdd(ctx, indexKey(collection), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put %s/%s: %w", collection, key, err)
	}
	return nil
}

// Delete removes the document, its list, and its index entry.
func (s *RedisStore) Delete(ctx context.Context, collection, key string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, redisKey(collection, key))
	pipe.SRem(ctx, indexKey(collection), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", collection, key, err)
	}
	return nil
}

// ListKeys returns the collection's indexed keys.
func (s *RedisStore) ListKeys(ctx context.Context, collection string) ([]string, error) {
	keys, err := s.client.SMembers(ctx, indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list keys %s: %w", collection, err)
	}
	return keys, nil
}

// AppendToList pushes the value and trims to the newest maxLen entries
// in one transaction, keeping append-and-evict atomic.
func (s *RedisStore) AppendToList(ctx context.Context, collection, key string, value any, maxLen int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, redisKey(collection, key), raw)
	if maxLen > 0 {
		pipe.LTrim(ctx, redisKey(collection, key), int64(-maxLen), -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append %s/%s: %w", collection, key, err)
	}
	return nil
}

// GetList loads the full list at collection/key into out, oldest first.
func (s *RedisStore) GetList(ctx context.Context, collection, key string, out any) error {
	items, err := s.client.LRange(ctx, redisKey(collection, key), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("redis range %s/%s: %w", collection, key, err)
	}

	encoded := make([]json.RawMessage, len(items))
	for i, item := range items {
		encoded[i] = json.RawMessage(item)
	}
	combined, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("encoding list %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal(combined, out); err != nil {
		return fmt.Errorf("decoding list %s/%s: %w", collection, key, err)
	}
	return nil
}
