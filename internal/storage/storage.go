package storage

import (
	"context"
	"fmt"

	"nurse-ats-go/internal/config"
	"nurse-ats-go/internal/logger"
)

// Storage aggregates every backend the pipeline talks to. MinIO and MySQL are
// mandatory; Redis and RabbitMQ are optional and their absence degrades the
// pipeline (no dedup cache, no events) rather than failing startup.
type Storage struct {
	MinIO    *MinIO
	MySQL    *MySQL
	Redis    *Redis
	RabbitMQ *RabbitMQ
}

// NewStorage wires the configured backends.
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	s := &Storage{}
	var err error

	s.MinIO, err = NewMinIO(ctx, &cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("minio init failed: %w", err)
	}

	s.MySQL, err = NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("mysql init failed: %w", err)
	}

	if cfg.Redis.Address != "" {
		s.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis init failed, continuing without dedup cache")
			s.Redis = nil
		}
	} else {
		logger.Info().Msg("redis not configured, dedup cache disabled")
	}

	if cfg.RabbitMQ.URL != "" {
		s.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("rabbitmq init failed, continuing without event publishing")
			s.RabbitMQ = nil
		}
	} else {
		logger.Info().Msg("rabbitmq not configured, event publishing disabled")
	}

	return s, nil
}

// Close shuts down every backend that holds a connection.
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("rabbitmq close failed")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("redis close failed")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("mysql close failed")
		}
	}
}
