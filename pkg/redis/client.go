package redis

import (
	"context"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/retry"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger  logger.Interface
	config  *Config
	cmdable redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger logger.Interface, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) validate() error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	}

	switch {
	case len(c.config.Addrs) == 0:
		return errors.NewErrorDetails("Redis addresses are empty", string(errors.RedisConfigError), "addrs")
	case c.config.Mode != Standalone && c.config.Mode != Cluster:
		return errors.NewErrorDetails("Invalid Redis mode", string(errors.RedisConfigError), "mode")
	case c.config.ConnectTimeout <= 0:
		return errors.NewErrorDetails("Invalid Redis connect timeout", string(errors.RedisConfigError), "connect_timeout")
	case c.config.PoolSize <= 0:
		return errors.NewErrorDetails("Invalid Redis pool size", string(errors.RedisConfigError), "pool_size")
	case c.config.MaxIdleConns < 0:
		return errors.NewErrorDetails("Invalid Redis max idle connections", string(errors.RedisConfigError), "max_idle_conns")
	case c.config.PoolTimeout <= 0:
		return errors.NewErrorDetails("Invalid Redis pool timeout", string(errors.RedisConfigError), "pool_timeout")
	case c.config.MaxRetries < 0:
		return errors.NewErrorDetails("Invalid Redis max retries", string(errors.RedisConfigError), "max_retries")
	case c.config.MinRetryBackoff < 0 || c.config.MaxRetryBackoff < 0:
		return errors.NewErrorDetails("Invalid Redis retry backoff", string(errors.RedisConfigError), "retry_backoff")
	}
	return nil
}

func (c *client) Connect(ctx context.Context) error {
	if err := c.validate(); err != nil {
		return err
	}

	opts := &redis.UniversalOptions{
		Addrs:           c.config.Addrs,
		Username:        c.config.Username,
		Password:        c.config.Password,
		MaxRetries:      c.config.MaxRetries,
		MinRetryBackoff: c.config.MinRetryBackoff,
		MaxRetryBackoff: c.config.MaxRetryBackoff,
		DialTimeout:     c.config.ConnectTimeout,
		ReadTimeout:     c.config.ConnectTimeout,
		WriteTimeout:    c.config.ConnectTimeout,
		PoolSize:        c.config.PoolSize,
		MinIdleConns:    c.config.MinIdleConns,
		MaxIdleConns:    c.config.MaxIdleConns,
		ConnMaxLifetime: c.config.ConnMaxLifetime,
		ConnMaxIdleTime: c.config.ConnMaxIdleTime,
		PoolTimeout:     c.config.PoolTimeout,
	}

	switch c.config.Mode {
	case Standalone:
		opts.Addrs = c.config.Addrs[:1]
		opts.DB = c.config.DB
		c.cmdable = redis.NewClient(opts.Simple())
	case Cluster:
		c.cmdable = redis.NewClusterClient(opts.Cluster())
	}

	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to connect to Redis: "+err.Error(), string(errors.RedisConnectionError), "connect")
	}
	return nil
}

// Reconnect retries Connect with exponential backoff and reports whether it succeeded.
func (c *client) Reconnect(ctx context.Context) bool {
	backoff := retry.Backoff{
		Base:   c.config.MinRetryBackoff,
		Max:    c.config.MaxRetryBackoff,
		Jitter: time.Second,
	}

	for i := range c.config.ReconnectMaxRetries {
		c.logger.Info("Reconnecting to Redis", logger.Field{
			Key:   "attempt",
			Value: i + 1,
		})

		if err := backoff.Wait(ctx, i); err != nil {
			c.logger.Info("Reconnect cancelled", logger.Field{
				Key:   "reason",
				Value: err.Error(),
			})
			return false
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := c.Connect(connectCtx)
		cancel()
		if err == nil {
			c.logger.Info("Reconnected to Redis successfully", logger.Field{
				Key:   "attempt",
				Value: i + 1,
			})
			return true
		}
		c.logger.Error(errors.TracerFromError(err), logger.Field{
			Key:   "attempt",
			Value: i + 1,
		})
	}

	return false
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.cmdable == nil {
		return nil
	}
	if err := c.cmdable.Close(); err != nil {
		return errors.NewErrorDetails("Failed to close Redis client", string(errors.RedisDisconnectionError), "disconnect")
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	affected, err := c.cmdable.HSet(ctx, key, values).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to set fields in hash in Redis", string(errors.RedisHSetError), "hset")
	}
	return affected, nil
}

// Publish returns the number of subscribers that received the message. Zero
// receivers is not an error.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	published, err := c.cmdable.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to publish to Redis channel", string(errors.RedisPublishError), "publish")
	}
	return published, nil
}

func (c *client) XAdd(ctx context.Context, args *redis.XAddArgs) (string, error) {
	streamID, err := c.cmdable.XAdd(ctx, args).Result()
	if err != nil || streamID == "" {
		return "", errors.NewErrorDetails("Failed to add entry to stream", string(errors.RedisXAddError), "xadd")
	}
	return streamID, nil
}
