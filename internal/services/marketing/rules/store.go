// internal/services/marketing/rules/store.go
package rules

import (
	"context"
	"database/sql"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Store persists marketing rules in PostgreSQL
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const ruleColumns = `id, rule_name, target_location, target_job_type, target_demographics, demographic_tags, message_template, cta_link, cta_preview, status, created_at, updated_at`

// List returns all marketing rules ordered by creation time
func (s *Store) List(ctx context.Context) ([]models.MarketingRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ruleColumns+`
		FROM marketing_rules
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list marketing rules", err)
	}
	defer rows.Close()

	var result []models.MarketingRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan marketing rule", err)
		}
		result = append(result, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate marketing rules", err)
	}

	return result, nil
}

// Get returns a single rule by ID
func (s *Store) Get(ctx context.Context, ruleID string) (*models.MarketingRule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ruleColumns+`
		FROM marketing_rules
		WHERE id = $1`, ruleID)

	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRuleNotFoundError(ruleID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get marketing rule", err)
	}

	return &rule, nil
}

// Create inserts a new rule and returns it with generated fields populated
func (s *Store) Create(ctx context.Context, rule *models.MarketingRule) (*models.MarketingRule, error) {
	now := time.Now().UTC()
	rule.ID = uuid.NewString()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO marketing_rules
			(id, rule_name, target_location, target_job_type, target_demographics, demographic_tags, message_template, cta_link, cta_preview, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rule.ID, rule.RuleName, rule.TargetLocation, rule.TargetJobType,
		rule.TargetDemographics, pq.Array(rule.DemographicTags),
		rule.MessageTemplate, rule.CTALink, rule.CTAPreview, rule.Status,
		rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("create marketing rule", err)
	}

	return rule, nil
}

// Update replaces the mutable fields of an existing rule
func (s *Store) Update(ctx context.Context, rule *models.MarketingRule) (*models.MarketingRule, error) {
	rule.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE marketing_rules
		SET rule_name = $2, target_location = $3, target_job_type = $4,
			target_demographics = $5, demographic_tags = $6,
			message_template = $7, cta_link = $8, cta_preview = $9,
			status = $10, updated_at = $11
		WHERE id = $1`,
		rule.ID, rule.RuleName, rule.TargetLocation, rule.TargetJobType,
		rule.TargetDemographics, pq.Array(rule.DemographicTags),
		rule.MessageTemplate, rule.CTALink, rule.CTAPreview, rule.Status,
		rule.UpdatedAt)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("update marketing rule", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("update marketing rule", err)
	}
	if affected == 0 {
		return nil, errors.NewRuleNotFoundError(rule.ID)
	}

	return rule, nil
}

// Delete removes a rule. Analytics entries for the rule are kept; they
// become orphaned and are excluded from per-rule reports by join.
func (s *Store) Delete(ctx context.Context, ruleID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM marketing_rules WHERE id = $1`, ruleID)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete marketing rule", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete marketing rule", err)
	}
	if affected == 0 {
		return errors.NewRuleNotFoundError(ruleID)
	}

	return nil
}

// ToggleStatus flips a rule between Active and Inactive and returns the
// updated rule
func (s *Store) ToggleStatus(ctx context.Context, ruleID string) (*models.MarketingRule, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE marketing_rules
		SET status = CASE status WHEN 'Active' THEN 'Inactive' ELSE 'Active' END,
			updated_at = $2
		WHERE id = $1
		RETURNING `+ruleColumns, ruleID, time.Now().UTC())

	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRuleNotFoundError(ruleID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("toggle marketing rule status", err)
	}

	return &rule, nil
}

// CountByStatus returns how many rules are active and inactive
func (s *Store) CountByStatus(ctx context.Context) (active, inactive int, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'Active'),
			COUNT(*) FILTER (WHERE status = 'Inactive')
		FROM marketing_rules`)

	if err := row.Scan(&active, &inactive); err != nil {
		return 0, 0, errors.NewQueryExecutionFailedError("count marketing rules", err)
	}

	return active, inactive, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (models.MarketingRule, error) {
	var rule models.MarketingRule
	err := row.Scan(
		&rule.ID, &rule.RuleName, &rule.TargetLocation, &rule.TargetJobType,
		&rule.TargetDemographics, pq.Array(&rule.DemographicTags),
		&rule.MessageTemplate, &rule.CTALink, &rule.CTAPreview, &rule.Status,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	return rule, err
}
