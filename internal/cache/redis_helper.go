package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = time.Minute
	scanBatchSize   = 100
)

// NewRedisClient connects and pings redis, returning the configured entry TTL.
func NewRedisClient(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, 0, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, 0, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, ttlFor(cfg), nil
}

func ttlFor(cfg config.CacheConfig) time.Duration {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return ttl
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func buildKey(prefix string, parts any) string {
	raw, err := json.Marshal(parts)
	if err != nil {
		return prefix
	}
	hash := sha1.Sum(raw)
	return prefix + ":" + hex.EncodeToString(hash[:])
}

func deleteKeysWithPrefix(ctx context.Context, client *redis.Client, prefix string, batchSize int64) error {
	var cursor uint64
	pattern := prefix + "*"
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, batchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

// jsonStore is the shared get/set/invalidate logic for one key prefix.
type jsonStore[T any] struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func (s *jsonStore[T]) get(ctx context.Context, key string) (*T, bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, false, fmt.Errorf("decode %s cache: %w", s.prefix, err)
	}
	return &v, true, nil
}

func (s *jsonStore[T]) set(ctx context.Context, key string, v *T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", s.prefix, err)
	}

	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *jsonStore[T]) invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, s.client, s.prefix, scanBatchSize)
}
