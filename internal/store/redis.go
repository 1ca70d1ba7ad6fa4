package store

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

const keyPrefix = "ttt:game:"

// Redis keeps each record as a JSON blob under ttt:game:<id>, refreshing
// the TTL on every save.
type Redis struct {
    rdb *redis.Client
    ttl time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
    return &Redis{rdb: rdb, ttl: ttl}
}

// OpenRedis parses a redis:// URL, connects and pings the server.
func OpenRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
    if strings.TrimSpace(url) == "" {
        return nil, errors.New("redis url is required")
    }
    opts, err := redis.ParseURL(url)
    if err != nil {
        return nil, fmt.Errorf("parse redis url: %w", err)
    }
    rdb := redis.NewClient(opts)
    if err := rdb.Ping(ctx).Err(); err != nil {
        _ = rdb.Close()
        return nil, fmt.Errorf("redis ping: %w", err)
    }
    return NewRedis(rdb, ttl), nil
}

func (s *Redis) key(id string) string { return keyPrefix + strings.TrimSpace(id) }

func (s *Redis) Save(ctx context.Context, rec *Record) error {
    if rec == nil {
        return nil
    }
    raw, err := json.Marshal(rec)
    if err != nil {
        return fmt.Errorf("marshal record: %w", err)
    }
    ttl := s.ttl
    if ttl < 0 {
        ttl = 0
    }
    if err := s.rdb.Set(ctx, s.key(rec.ID), raw, ttl).Err(); err != nil {
        return fmt.Errorf("save %s: %w", rec.ID, err)
    }
    return nil
}

func (s *Redis) Load(ctx context.Context, id string) (*Record, error) {
    raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
    if err == redis.Nil {
        return nil, nil
    }
    if err != nil {
        return nil, fmt.Errorf("load %s: %w", id, err)
    }
    var rec Record
    if err := json.Unmarshal(raw, &rec); err != nil {
        return nil, fmt.Errorf("decode %s: %w", id, err)
    }
    return &rec, nil
}

func (s *Redis) Delete(ctx context.Context, id string) error {
    return s.rdb.Del(ctx, s.key(id)).Err()
}

func (s *Redis) Close() error {
    if s == nil || s.rdb == nil {
        return nil
    }
    return s.rdb.Close()
}
