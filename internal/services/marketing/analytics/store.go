// internal/services/marketing/analytics/store.go
package analytics

import (
	"context"
	"database/sql"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/google/uuid"
)

// Event types recorded against rules
const (
	EventView  = "view"
	EventClick = "click"
)

// Store records CTA view/click events and aggregates them for reporting.
// Events reference rules by ID only and survive rule deletion: the
// cross-rule window queries (WindowTotals, ClicksByRuleID, JobsProcessed)
// read the events table alone and keep counting orphaned events, while
// the named per-rule reports join marketing_rules and report only
// surviving rules.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordEvent appends a single view or click event for a rule
func (s *Store) RecordEvent(ctx context.Context, ruleID, eventType string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO marketing_analytics_events (id, rule_id, event_type, occurred_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), ruleID, eventType, time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("record analytics event", err)
	}
	return nil
}

// RuleTotals returns lifetime view/click totals per surviving rule.
// The inner join drops events whose rule has been deleted.
func (s *Store) RuleTotals(ctx context.Context) ([]models.RuleAnalytics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.rule_name,
			COUNT(e.id) FILTER (WHERE e.event_type = 'view'),
			COUNT(e.id) FILTER (WHERE e.event_type = 'click')
		FROM marketing_rules r
		LEFT JOIN marketing_analytics_events e ON e.rule_id = r.id
		GROUP BY r.id, r.rule_name
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("rule analytics totals", err)
	}
	defer rows.Close()

	var result []models.RuleAnalytics
	for rows.Next() {
		var ra models.RuleAnalytics
		if err := rows.Scan(&ra.RuleID, &ra.RuleName, &ra.Views, &ra.Clicks); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan rule analytics", err)
		}
		result = append(result, ra)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate rule analytics", err)
	}

	return result, nil
}

// RuleTotalsByID returns lifetime totals for one rule
func (s *Store) RuleTotalsByID(ctx context.Context, ruleID string) (*models.RuleAnalytics, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.rule_name,
			COUNT(e.id) FILTER (WHERE e.event_type = 'view'),
			COUNT(e.id) FILTER (WHERE e.event_type = 'click')
		FROM marketing_rules r
		LEFT JOIN marketing_analytics_events e ON e.rule_id = r.id
		WHERE r.id = $1
		GROUP BY r.id, r.rule_name`, ruleID)

	var ra models.RuleAnalytics
	err := row.Scan(&ra.RuleID, &ra.RuleName, &ra.Views, &ra.Clicks)
	if err == sql.ErrNoRows {
		return nil, errors.NewRuleNotFoundError(ruleID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("rule analytics by id", err)
	}

	return &ra, nil
}

// WindowTotals returns total views and clicks across all rules within
// [from, to)
func (s *Store) WindowTotals(ctx context.Context, from, to time.Time) (views, clicks int64, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE event_type = 'view'),
			COUNT(*) FILTER (WHERE event_type = 'click')
		FROM marketing_analytics_events
		WHERE occurred_at >= $1 AND occurred_at < $2`, from, to)

	if err := row.Scan(&views, &clicks); err != nil {
		return 0, 0, errors.NewQueryExecutionFailedError("window analytics totals", err)
	}

	return views, clicks, nil
}

// PerformanceByRule returns click counts per surviving rule within
// [from, to), highest first
func (s *Store) PerformanceByRule(ctx context.Context, from, to time.Time) ([]models.RulePerformance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.rule_name, COUNT(e.id)
		FROM marketing_rules r
		JOIN marketing_analytics_events e ON e.rule_id = r.id
		WHERE e.event_type = 'click' AND e.occurred_at >= $1 AND e.occurred_at < $2
		GROUP BY r.rule_name
		ORDER BY COUNT(e.id) DESC`, from, to)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("rule performance", err)
	}
	defer rows.Close()

	var result []models.RulePerformance
	for rows.Next() {
		var rp models.RulePerformance
		if err := rows.Scan(&rp.Name, &rp.Clicks); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan rule performance", err)
		}
		result = append(result, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate rule performance", err)
	}

	return result, nil
}

// ClicksByRuleID returns click counts keyed by rule ID within [from, to).
// Rules with no clicks in the window are absent from the map.
func (s *Store) ClicksByRuleID(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, COUNT(*)
		FROM marketing_analytics_events
		WHERE event_type = 'click' AND occurred_at >= $1 AND occurred_at < $2
		GROUP BY rule_id`, from, to)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("clicks by rule", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var ruleID string
		var clicks int64
		if err := rows.Scan(&ruleID, &clicks); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan clicks by rule", err)
		}
		result[ruleID] = clicks
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate clicks by rule", err)
	}

	return result, nil
}

// JobsProcessed returns the number of listing views that went through the
// rule engine
func (s *Store) JobsProcessed(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM marketing_analytics_events WHERE event_type = 'view'`)
	if err := row.Scan(&count); err != nil {
		return 0, errors.NewQueryExecutionFailedError("jobs processed count", err)
	}
	return count, nil
}
