package session

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

type RedisConfig struct {
    Addr     string
    Password string
    DB       int
    Key      string
    // Zero keeps the snapshot until cleared.
    TTL time.Duration
}

// RedisStore keeps the snapshot as a JSON string under a single key.
type RedisStore struct {
    client *redis.Client
    key    string
    ttl    time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg *RedisConfig) (*RedisStore, error) {
    client := redis.NewClient(&redis.Options{
        Addr:     cfg.Addr,
        Password: cfg.Password,
        DB:       cfg.DB,
    })

    pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
    defer cancel()
    if err := client.Ping(pingCtx).Err(); err != nil {
        client.Close()
        return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
    }

    key := cfg.Key
    if key == "" {
        key = "legaldoc:session"
    }
    return &RedisStore{client: client, key: key, ttl: cfg.TTL}, nil
}

func (r *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
    data, err := r.client.Get(ctx, r.key).Bytes()
    if errors.Is(err, redis.Nil) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, fmt.Errorf("failed to get session from redis: %w", err)
    }

    var snap Snapshot
    if err := json.Unmarshal(data, &snap); err != nil {
        return nil, fmt.Errorf("failed to unmarshal session: %w", err)
    }
    return &snap, nil
}

func (r *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
    data, err := json.Marshal(snap)
    if err != nil {
        return fmt.Errorf("failed to marshal session: %w", err)
    }
    if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
        return fmt.Errorf("failed to save session to redis: %w", err)
    }
    return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
    return r.client.Del(ctx, r.key).Err()
}

func (r *RedisStore) Close() error {
    return r.client.Close()
}
