package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoCommand is returned by PopCommand when the wait timed out.
var ErrNoCommand = errors.New("no command queued")

// Client is a thin wrapper around a Redis connection.
type Client struct {
	client *redis.Client
}

// Dial connects to the Redis server at addr and checks it answers.
func Dial(ctx context.Context, addr, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Client{client: client}, nil
}

// WriteAndPublish stores fields in the hash at key and publishes
// "field:value" on key for every field, in one round trip.
func (c *Client) WriteAndPublish(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for field, value := range fields {
		pipe.HSet(ctx, key, field, value)
		pipe.Publish(ctx, key, field+":"+value)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Publish sends message on channel.
func (c *Client) Publish(ctx context.Context, channel, message string) error {
	return c.client.Publish(ctx, channel, message).Err()
}

// PopCommand waits up to timeout for an entry on the list at key.
func (c *Client) PopCommand(ctx context.Context, key string, timeout time.Duration) (string, error) {
	result, err := c.client.BRPop(ctx, timeout, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCommand
	}
	if err != nil {
		return "", err
	}
	// result is [key, value]
	if len(result) != 2 {
		return "", fmt.Errorf("unexpected BRPOP result: %v", result)
	}
	return result[1], nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ Store = (*Client)(nil)
