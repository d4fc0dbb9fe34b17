// internal/services/marketing/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const statsSnapshotKey = "marketing:analytics:v1:stats"

// RuleCounter reports rule counts by status
type RuleCounter interface {
	CountByStatus(ctx context.Context) (active, inactive int, err error)
}

// Service aggregates CTA analytics for reporting
type Service struct {
	store       *Store
	ruleCounter RuleCounter
	redis       *redis.Client
	snapshotTTL time.Duration
	window      time.Duration
	logger      logger.Logger
	now         func() time.Time
}

func NewService(store *Store, ruleCounter RuleCounter, rdb *redis.Client, snapshotTTL time.Duration, windowDays int, log logger.Logger) *Service {
	return &Service{
		store:       store,
		ruleCounter: ruleCounter,
		redis:       rdb,
		snapshotTTL: snapshotTTL,
		window:      time.Duration(windowDays) * 24 * time.Hour,
		logger:      log.WithFields(map[string]interface{}{"service": "marketing-analytics"}),
		now:         time.Now,
	}
}

// RecordView logs a CTA impression for a rule
func (s *Service) RecordView(ctx context.Context, ruleID string) error {
	return s.store.RecordEvent(ctx, ruleID, EventView)
}

// RecordClick logs a CTA click for a rule
func (s *Service) RecordClick(ctx context.Context, ruleID string) error {
	return s.store.RecordEvent(ctx, ruleID, EventClick)
}

// GetRulesAnalytics returns per-rule totals with click-through rates and
// a trend direction comparing the current window to the preceding one
func (s *Service) GetRulesAnalytics(ctx context.Context) ([]models.RuleAnalytics, error) {
	totals, err := s.store.RuleTotals(ctx)
	if err != nil {
		return nil, err
	}

	current, previous, err := s.windowClicks(ctx)
	if err != nil {
		return nil, err
	}

	for i := range totals {
		totals[i].CTR = clickThroughRate(totals[i].Views, totals[i].Clicks)
		totals[i].Trend = trendOf(previous[totals[i].RuleID], current[totals[i].RuleID])
	}

	return totals, nil
}

// GetRuleAnalytics returns totals for a single rule
func (s *Service) GetRuleAnalytics(ctx context.Context, ruleID string) (*models.RuleAnalytics, error) {
	ra, err := s.store.RuleTotalsByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	current, previous, err := s.windowClicks(ctx)
	if err != nil {
		return nil, err
	}

	ra.CTR = clickThroughRate(ra.Views, ra.Clicks)
	ra.Trend = trendOf(previous[ruleID], current[ruleID])
	return ra, nil
}

// windowClicks returns per-rule click counts for the configured window and
// the window immediately before it
func (s *Service) windowClicks(ctx context.Context) (current, previous map[string]int64, err error) {
	nowTime := s.now().UTC()
	currentFrom := nowTime.Add(-s.window)
	previousFrom := currentFrom.Add(-s.window)

	current, err = s.store.ClicksByRuleID(ctx, currentFrom, nowTime)
	if err != nil {
		return nil, nil, err
	}

	previous, err = s.store.ClicksByRuleID(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, nil, err
	}

	return current, previous, nil
}

func trendOf(previous, current int64) string {
	switch {
	case current > previous:
		return models.TrendUp
	case current < previous:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}

// GetOverallStats summarizes the rule engine state. With no rules and no
// traffic every figure is zero.
func (s *Service) GetOverallStats(ctx context.Context) (*models.MarketingRuleStats, error) {
	active, inactive, err := s.ruleCounter.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	jobsProcessed, err := s.store.JobsProcessed(ctx)
	if err != nil {
		return nil, err
	}

	from := time.Time{}
	views, clicks, err := s.store.WindowTotals(ctx, from, s.now().UTC())
	if err != nil {
		return nil, err
	}

	return &models.MarketingRuleStats{
		ActiveRules:   active,
		InactiveRules: inactive,
		JobsProcessed: jobsProcessed,
		CTAClickRate:  clickThroughRate(views, clicks),
	}, nil
}

// GetMarketingAnalytics compares the requested period against the
// preceding period of equal length. Accepted periods: 7d, 30d, 90d;
// anything else falls back to the configured default window.
func (s *Service) GetMarketingAnalytics(ctx context.Context, period string) (*models.MarketingAnalytics, error) {
	window := s.periodWindow(period)
	nowTime := s.now().UTC()
	currentFrom := nowTime.Add(-window)
	previousFrom := currentFrom.Add(-window)

	curViews, curClicks, err := s.store.WindowTotals(ctx, currentFrom, nowTime)
	if err != nil {
		return nil, err
	}

	prevViews, prevClicks, err := s.store.WindowTotals(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, err
	}

	performance, err := s.store.PerformanceByRule(ctx, currentFrom, nowTime)
	if err != nil {
		return nil, err
	}
	if performance == nil {
		performance = []models.RulePerformance{}
	}

	curCTR := clickThroughRate(curViews, curClicks)
	prevCTR := clickThroughRate(prevViews, prevClicks)

	return &models.MarketingAnalytics{
		TotalViews:          curViews,
		ViewsChangePercent:  percentChange(float64(prevViews), float64(curViews)),
		TotalClicks:         curClicks,
		ClicksChangePercent: percentChange(float64(prevClicks), float64(curClicks)),
		ClickThroughRate:    curCTR,
		CTRChangePercent:    percentChange(prevCTR, curCTR),
		PerformanceByRule:   performance,
	}, nil
}

// SnapshotStats computes the overall stats and caches them in Redis so
// dashboards don't recompute counts on every load. Invoked by the cron
// scheduler.
func (s *Service) SnapshotStats(ctx context.Context) error {
	stats, err := s.GetOverallStats(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, statsSnapshotKey, data, s.snapshotTTL).Err(); err != nil {
		return err
	}

	s.logger.Info("stats snapshot written", map[string]interface{}{
		"activeRules":   stats.ActiveRules,
		"jobsProcessed": stats.JobsProcessed,
	})

	return nil
}

// CachedStats returns the last snapshot, falling back to a live compute
// when no snapshot exists
func (s *Service) CachedStats(ctx context.Context) (*models.MarketingRuleStats, error) {
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, statsSnapshotKey).Result(); err == nil {
			var stats models.MarketingRuleStats
			if err := json.Unmarshal([]byte(val), &stats); err == nil {
				return &stats, nil
			}
		}
	}
	return s.GetOverallStats(ctx)
}

func (s *Service) periodWindow(period string) time.Duration {
	switch period {
	case "7d":
		return 7 * 24 * time.Hour
	case "30d":
		return 30 * 24 * time.Hour
	case "90d":
		return 90 * 24 * time.Hour
	default:
		return s.window
	}
}

// clickThroughRate is clicks/views as a percentage, zero when there are
// no views
func clickThroughRate(views, clicks int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(clicks) / float64(views) * 100
}

// percentChange is the relative change from prev to cur as a percentage,
// zero when there is no previous baseline
func percentChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
