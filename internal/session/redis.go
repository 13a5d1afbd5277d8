package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Zachkp/council-manifesto/internal/gallery"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "manifesto:page:"

// RedisStore shares visitor state between server instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and pings it once. A failed ping is
// returned so the caller can fall back to memory.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Info("connected to session cache", "addr", addr, "reply", pong)
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (gallery.PopupSnapshot, error) {
	raw, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return gallery.PopupSnapshot{}, nil
	}
	if err != nil {
		return gallery.PopupSnapshot{}, fmt.Errorf("load session: %w", err)
	}
	var snap gallery.PopupSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return gallery.PopupSnapshot{}, fmt.Errorf("decode session: %w", err)
	}
	return snap, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, snap gallery.PopupSnapshot) error {
	if !snap.Open {
		return r.Delete(ctx, id)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+id, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
