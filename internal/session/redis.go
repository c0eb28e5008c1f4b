package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/inventory_dashboard/internal/logging"
	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps slots in Redis, so sessions outlive the server process.
// Slots have no expiry.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Save(ctx context.Context, user models.User) error {
	id, ok := BrowserFrom(ctx)
	if !ok {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	if err := s.rdb.Set(ctx, slotKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*models.User, bool) {
	id, ok := BrowserFrom(ctx)
	if !ok {
		return nil, false
	}

	data, err := s.rdb.Get(ctx, slotKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logging.FromContext(ctx).Warn("session_load_failed", "reason", "redis get", "error", err)
		return nil, false
	}
	return decode(data)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	id, ok := BrowserFrom(ctx)
	if !ok {
		return nil
	}
	if err := s.rdb.Del(ctx, slotKey(id)).Err(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
