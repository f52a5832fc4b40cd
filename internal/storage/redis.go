package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"nurse-ats-go/internal/config"
	"nurse-ats-go/internal/constants"
	"nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/processor"
)

// Redis backs the file-MD5 dedup set and the parsed-record cache. Both are
// advisory: a cold or broken cache only costs a re-parse.
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter connects, instruments the client for tracing, and pings.
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config must not be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	client := redis.NewClient(opt)

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis with opentelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}

	logger.Info().Str("address", cfg.Address).Msg("redis connected")
	return &Redis{Client: client, config: cfg}, nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// LookupParsed returns the cached parse for a file MD5, or nil on a miss.
func (r *Redis) LookupParsed(ctx context.Context, md5hex string) (*processor.CachedParse, error) {
	key := fmt.Sprintf(constants.KeyParsedRecordCache, md5hex)
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read parsed-record cache: %w", err)
	}

	var parse processor.CachedParse
	if err := json.Unmarshal(data, &parse); err != nil {
		// A corrupt entry is worth a warning but never a failed upload.
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("dropping corrupt parsed-record cache entry")
		r.Client.Del(ctx, key)
		return nil, nil
	}
	return &parse, nil
}

// StoreParsed caches a parse result under the file MD5.
func (r *Redis) StoreParsed(ctx context.Context, md5hex string, parse *processor.CachedParse) error {
	data, err := json.Marshal(parse)
	if err != nil {
		return fmt.Errorf("failed to marshal parse for cache: %w", err)
	}
	key := fmt.Sprintf(constants.KeyParsedRecordCache, md5hex)
	if err := r.Client.Set(ctx, key, data, constants.MD5RecordTTL).Err(); err != nil {
		return fmt.Errorf("failed to write parsed-record cache: %w", err)
	}
	return nil
}

// RegisterFile records a file MD5 in the profile's dedup set.
func (r *Redis) RegisterFile(ctx context.Context, profileID, md5hex string) error {
	key := fmt.Sprintf(constants.KeyRawFileMD5Set, profileID)
	pipe := r.Client.Pipeline()
	pipe.SAdd(ctx, key, md5hex)
	pipe.Expire(ctx, key, constants.MD5RecordTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to register file md5: %w", err)
	}
	return nil
}

// HasFile reports whether the profile already uploaded a file with this MD5.
func (r *Redis) HasFile(ctx context.Context, profileID, md5hex string) (bool, error) {
	key := fmt.Sprintf(constants.KeyRawFileMD5Set, profileID)
	seen, err := r.Client.SIsMember(ctx, key, md5hex).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check file md5: %w", err)
	}
	return seen, nil
}
