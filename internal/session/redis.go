package session

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// RedisTracker stores session activity in Redis with a TTL.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTracker connects to Redis using a redis:// URL.
func NewRedisTracker(ctx context.Context, url string, ttl time.Duration) (*RedisTracker, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTracker{client: client, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Touch records one prediction for a session, refreshing its TTL.
func (r *RedisTracker) Touch(ctx context.Context, sessionID, userID, gameID string) error {
	act, err := r.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if act == nil {
		act = &Activity{SessionID: sessionID}
	}
	act.UserID = userID
	act.LastGame = gameID
	act.Predictions++
	act.UpdatedAt = time.Now().Unix()

	data, err := sonic.Marshal(act)
	if err != nil {
		return fmt.Errorf("failed to marshal session activity: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session activity: %w", err)
	}
	return nil
}

// Get returns the activity for a session, or nil when unknown.
func (r *RedisTracker) Get(ctx context.Context, sessionID string) (*Activity, error) {
	return r.load(ctx, sessionID)
}

func (r *RedisTracker) load(ctx context.Context, sessionID string) (*Activity, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session activity: %w", err)
	}

	var act Activity
	if err := sonic.Unmarshal([]byte(data), &act); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session activity: %w", err)
	}
	return &act, nil
}

// Close closes the Redis connection.
func (r *RedisTracker) Close() error {
	return r.client.Close()
}
