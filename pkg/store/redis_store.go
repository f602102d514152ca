// maestro/pkg/store/redis_store.go

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"maestro/pkg/logging"
)

// RedisStore keeps enrichment records as JSON values with a TTL so
// stale metadata eventually expires.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	logging.Logger.Info().Str("addr", addr).Int("db", db).Msg("Connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		logging.Logger.Error().Err(err).Msg("Failed to connect to Redis")
		return nil, err
	}

	logging.Logger.Info().Msg("Successfully connected to Redis")
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) SetRecord(ctx context.Context, key string, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		logging.Logger.Error().Err(err).Str("key", key).Msg("Failed to marshal record")
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *RedisStore) GetRecord(ctx context.Context, key string) (Record, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		logging.Logger.Debug().Str("key", key).Msg("Record not found in Redis")
		return nil, nil
	} else if err != nil {
		logging.Logger.Error().Err(err).Str("key", key).Msg("Failed to get record from Redis")
		return nil, err
	}

	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		logging.Logger.Error().Err(err).Str("key", key).Str("data", data).Msg("Failed to unmarshal record")
		return nil, err
	}
	return record, nil
}

// MGetRecords fetches a batch of records in one round trip; keys with
// no stored record are absent from the result.
func (s *RedisStore) MGetRecords(ctx context.Context, keys ...string) (map[string]Record, error) {
	if len(keys) == 0 {
		return map[string]Record{}, nil
	}
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make(map[string]Record)
	for i, result := range results {
		if result == nil {
			continue
		}

		var record Record
		switch v := result.(type) {
		case string:
			if err := json.Unmarshal([]byte(v), &record); err != nil {
				return nil, err
			}
		case []byte:
			if err := json.Unmarshal(v, &record); err != nil {
				return nil, err
			}
		default:
			continue
		}
		records[keys[i]] = record
	}
	return records, nil
}
