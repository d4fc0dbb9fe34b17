// internal/services/marketing/rules/cache.go
package rules

import (
	"context"
	"encoding/json"
	"time"

	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/common/metrics"
	"workwise-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache key layout. Keys are versioned so stale readers cannot collide
// with reshaped payloads.
const (
	ruleListKey = "marketing:rules:v1:list"
	rulePrefix  = "marketing:rules:v1:rule:"
)

// Cache keeps the rule list in Redis so the matcher does not hit Postgres
// on every job view
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "rule-cache"}),
	}
}

// GetList returns the cached rule list, or nil on miss
func (c *Cache) GetList(ctx context.Context) ([]models.MarketingRule, bool) {
	val, err := c.redis.Get(ctx, ruleListKey).Result()
	if err == redis.Nil {
		metrics.RuleCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		c.logger.Warn("rule list cache read failed", map[string]interface{}{"error": err.Error()})
		metrics.RuleCacheHits.WithLabelValues("error").Inc()
		return nil, false
	}

	var rulesList []models.MarketingRule
	if err := json.Unmarshal([]byte(val), &rulesList); err != nil {
		c.logger.Warn("rule list cache payload corrupt, invalidating", map[string]interface{}{"error": err.Error()})
		_ = c.redis.Del(ctx, ruleListKey).Err()
		metrics.RuleCacheHits.WithLabelValues("error").Inc()
		return nil, false
	}

	metrics.RuleCacheHits.WithLabelValues("hit").Inc()
	return rulesList, true
}

// SetList stores the rule list with the configured TTL
func (c *Cache) SetList(ctx context.Context, rulesList []models.MarketingRule) {
	data, err := json.Marshal(rulesList)
	if err != nil {
		c.logger.Warn("rule list cache marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := c.redis.Set(ctx, ruleListKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("rule list cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// Invalidate drops the cached list and a single rule entry. Called on every
// write so reads never serve a deleted or stale rule.
func (c *Cache) Invalidate(ctx context.Context, ruleID string) {
	keys := []string{ruleListKey}
	if ruleID != "" {
		keys = append(keys, rulePrefix+ruleID)
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("rule cache invalidation failed", map[string]interface{}{
			"ruleId": ruleID,
			"error":  err.Error(),
		})
	}
}
