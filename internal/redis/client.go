package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

type SessionData struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Session management
func (c *Client) SetSession(sessionID string, data *SessionData, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, "session:"+sessionID, jsonData, ttl).Err()
}

func (c *Client) GetSession(sessionID string) (*SessionData, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "session:"+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

func (c *Client) DeleteSession(sessionID string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "session:"+sessionID).Err()
}

// Page cache. Rendered page payloads are cached under "page:<path>" and
// dropped when a mutation touches the underlying data.
func (c *Client) SetPage(path string, payload interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal page payload: %w", err)
	}

	return c.rdb.Set(ctx, "page:"+path, jsonData, ttl).Err()
}

func (c *Client) GetPage(path string, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "page:"+path).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("page not cached")
		}
		return fmt.Errorf("failed to get cached page: %w", err)
	}

	return json.Unmarshal([]byte(val), dest)
}

// RevalidatePath invalidates the cached payload for a path and all of
// its sub-paths.
func (c *Client) RevalidatePath(path string) error {
	ctx := context.Background()
	if err := c.rdb.Del(ctx, "page:"+path).Err(); err != nil {
		return err
	}

	iter := c.rdb.Scan(ctx, 0, "page:"+path+"/*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
