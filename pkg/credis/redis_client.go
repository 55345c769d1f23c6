package credis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const RedisLifetimeTag = "redis_client"

type RedisCfg struct {
	Addresses      []string
	Database       int
	Username       string
	Password       string
	MinimumIdle    int
	MaximumIdle    int
	Maximum        int
	MaxIdleTime    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxWaitTimeout time.Duration
	PingTimeout    time.Duration
}

type RedisClient struct {
	cli redis.UniversalClient
}

func NewRedisClient(cfg RedisCfg) *RedisClient {
	cli := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:           cfg.Addresses,
		DB:              cfg.Database,
		Username:        cfg.Username,
		Password:        cfg.Password,
		MinIdleConns:    cfg.MinimumIdle,
		MaxIdleConns:    cfg.MaximumIdle,
		PoolSize:        cfg.Maximum,
		ConnMaxIdleTime: cfg.MaxIdleTime,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolTimeout:     cfg.MaxWaitTimeout,
	})

	return &RedisClient{
		cli: cli,
	}
}

func (rc *RedisClient) Ping(ctx context.Context, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return rc.cli.Ping(pingCtx).Err()
}

func (rc *RedisClient) Cli() redis.UniversalClient {
	return rc.cli
}

func (rc *RedisClient) With(fn func(cli redis.UniversalClient) error) error {
	return fn(rc.cli)
}

func (rc *RedisClient) GracefulStop(_ context.Context) error {
	return rc.cli.Close()
}
