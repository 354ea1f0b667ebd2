package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/analysis"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	// Prefix namespaces every key; defaults to "seoplanner:analysis:".
	Prefix string
	TTL    time.Duration
}

// AnalysisCache stores batch analysis payloads in Redis.
type AnalysisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

var _ analysis.Cache = (*AnalysisCache)(nil)

// NewAnalysisCache connects and pings. An empty Addr returns nil, nil.
func NewAnalysisCache(log *logger.Logger, cfg Config) (*AnalysisCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newAnalysisCache(log, rdb, cfg), nil
}

func newAnalysisCache(log *logger.Logger, rdb *goredis.Client, cfg Config) *AnalysisCache {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "seoplanner:analysis:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AnalysisCache{
		log:    log.With("service", "RedisAnalysisCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *AnalysisCache) Get(ctx context.Context, key string) (*analysis.AnalysisPayload, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out analysis.AnalysisPayload
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("Dropping unreadable analysis cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, c.prefix+key).Err()
		return nil, false, nil
	}
	return &out, true, nil
}

func (c *AnalysisCache) Set(ctx context.Context, key string, payload *analysis.AnalysisPayload) error {
	if c == nil || c.rdb == nil || payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}

func (c *AnalysisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
