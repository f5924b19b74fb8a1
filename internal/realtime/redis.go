package realtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sagar1205/QuickTask/internal/config"
)

// Open connects a redis client for the configured mode and verifies it
// with a bounded ping.
func Open(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("redis addresses empty")
	}
	switch strings.ToLower(cfg.Mode) {
	case "single", "cluster", "sentinel":
		if cfg.Mode == "sentinel" && cfg.SentinelMaster == "" {
			return nil, fmt.Errorf("sentinel mode requires sentinel_master")
		}
	default:
		return nil, fmt.Errorf("unknown redis mode: %s", cfg.Mode)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        cfg.Addresses,
		DB:           cfg.DB,
		Username:     cfg.Username,
		Password:     cfg.Password,
		MasterName:   cfg.SentinelMaster,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
