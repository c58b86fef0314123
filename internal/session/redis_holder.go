package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "storefront:session:"

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisHolderStore keeps sessions in Redis as JSON values with a TTL
type RedisHolderStore struct {
	rdb *redis.Client
}

// NewRedisHolderStore creates a holder backed by rdb
func NewRedisHolderStore(rdb *redis.Client) *RedisHolderStore {
	return &RedisHolderStore{rdb: rdb}
}

// Save stores s until ttl elapses
func (r *RedisHolderStore) Save(ctx context.Context, s Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(s.Token), b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the live session for token
func (r *RedisHolderStore) Load(ctx context.Context, token string) (Session, bool, error) {
	res, err := r.rdb.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(res, &s); err != nil {
		return Session{}, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, true, nil
}

// Delete forgets the session for token
func (r *RedisHolderStore) Delete(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
