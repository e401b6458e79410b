package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/types"
)

// TemplateCache is a read-through cache in front of the template table.
// Resolution happens on every generation call, so even a short TTL takes
// most of the read load off Postgres.
type TemplateCache interface {
	Get(ctx context.Context, key string) (*types.Template, bool)
	Set(ctx context.Context, tpl *types.Template)
	Invalidate(ctx context.Context, key string)
	Close() error
}

type templateCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewTemplateCache connects using REDIS_ADDR. Callers treat a nil cache
// as "no caching"; an unreachable redis is an error here so the caller
// can decide to run without it.
func NewTemplateCache(log *logger.Logger) (TemplateCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &templateCache{
		log: log.With("client", "RedisTemplateCache"),
		rdb: rdb,
		ttl: 60 * time.Second,
	}, nil
}

func cacheKey(key string) string {
	return "template:" + key
}

func (tc *templateCache) Get(ctx context.Context, key string) (*types.Template, bool) {
	raw, err := tc.rdb.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			tc.log.Warn("Template cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var tpl types.Template
	if err := json.Unmarshal(raw, &tpl); err != nil {
		tc.log.Warn("Template cache entry corrupt, dropping", "key", key, "error", err)
		_ = tc.rdb.Del(ctx, cacheKey(key)).Err()
		return nil, false
	}
	return &tpl, true
}

func (tc *templateCache) Set(ctx context.Context, tpl *types.Template) {
	if tpl == nil {
		return
	}
	raw, err := json.Marshal(tpl)
	if err != nil {
		return
	}
	if err := tc.rdb.Set(ctx, cacheKey(tpl.Key), raw, tc.ttl).Err(); err != nil {
		tc.log.Warn("Template cache write failed", "key", tpl.Key, "error", err)
	}
}

func (tc *templateCache) Invalidate(ctx context.Context, key string) {
	if err := tc.rdb.Del(ctx, cacheKey(key)).Err(); err != nil {
		tc.log.Warn("Template cache invalidate failed", "key", key, "error", err)
	}
}

func (tc *templateCache) Close() error {
	return tc.rdb.Close()
}
