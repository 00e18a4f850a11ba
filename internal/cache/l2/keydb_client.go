package l2

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-abi-cache/internal/config"
	"go-abi-cache/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient is the go-redis connection behind the shared interface tier
type RedisKeyDbClient struct {
	client *redis.Client
}

// ParseKeyDBURL accepts redis://, rediss:// and unix:// URLs (credentials and
// database number included) and applies the configured timeouts and pool size
func ParseKeyDBURL(keydbCfg *config.KeyDBConfig, keydbURL string) (*redis.Options, error) {
	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("invalid KeyDB URL: %w", err)
	}

	opts.DialTimeout = keydbCfg.Connection.ConnectTimeout
	opts.ReadTimeout = keydbCfg.Connection.ReadTimeout
	opts.WriteTimeout = keydbCfg.Connection.SendTimeout
	opts.PoolSize = keydbCfg.Keepalive.PoolSize
	opts.IdleTimeout = keydbCfg.Keepalive.MaxIdleTimeout
	return opts, nil
}

// NewRedisKeyDbClient dials KeyDB and fails unless it answers a PING within
// the connect timeout, so the caller can fall back to running without L2
func NewRedisKeyDbClient(keydbCfg *config.KeyDBConfig, keydbURL string, logger *zap.Logger) (*RedisKeyDbClient, error) {
	opts, err := ParseKeyDBURL(keydbCfg, keydbURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), keydbCfg.Connection.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("KeyDB at %s unreachable: %w", opts.Addr, err)
	}

	logger.Info("Interface tier connected to KeyDB",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Int("pool_size", opts.PoolSize))

	return &RedisKeyDbClient{client: client}, nil
}

func (r *RedisKeyDbClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

// Set writes value; interface entries are stored with expiration 0
func (r *RedisKeyDbClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

func (r *RedisKeyDbClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

func (r *RedisKeyDbClient) Close() error {
	return r.client.Close()
}
