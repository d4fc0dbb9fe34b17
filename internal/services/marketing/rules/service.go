// internal/services/marketing/rules/service.go
package rules

import (
	"context"

	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"
)

// Service owns the marketing rule lifecycle: CRUD, status toggling and
// the read-through cache used by the matcher
type Service struct {
	store  *Store
	cache  *Cache
	logger logger.Logger
}

func NewService(store *Store, cache *Cache, log logger.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"service": "marketing-rules"}),
	}
}

// List returns all rules, served from cache when possible
func (s *Service) List(ctx context.Context) ([]models.MarketingRule, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetList(ctx); ok {
			return cached, nil
		}
	}

	rulesList, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetList(ctx, rulesList)
	}

	return rulesList, nil
}

// Get returns a single rule by ID
func (s *Service) Get(ctx context.Context, ruleID string) (*models.MarketingRule, error) {
	return s.store.Get(ctx, ruleID)
}

// Create validates and persists a new rule. An empty ctaPreview defaults
// to the message template so list views always have preview text.
func (s *Service) Create(ctx context.Context, rule *models.MarketingRule) (*models.MarketingRule, error) {
	applyDefaults(rule)

	if err := ValidateRule(rule); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, rule)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, created.ID)
	}

	s.logger.Info("marketing rule created", map[string]interface{}{
		"ruleId":   created.ID,
		"ruleName": created.RuleName,
	})

	return created, nil
}

// Update validates and replaces an existing rule
func (s *Service) Update(ctx context.Context, rule *models.MarketingRule) (*models.MarketingRule, error) {
	applyDefaults(rule)

	if err := ValidateRule(rule); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, rule)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, updated.ID)
	}

	s.logger.Info("marketing rule updated", map[string]interface{}{
		"ruleId": updated.ID,
	})

	return updated, nil
}

// Delete removes a rule and invalidates the cache. The rule's analytics
// entries are intentionally left behind.
func (s *Service) Delete(ctx context.Context, ruleID string) error {
	if err := s.store.Delete(ctx, ruleID); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, ruleID)
	}

	s.logger.Info("marketing rule deleted", map[string]interface{}{
		"ruleId": ruleID,
	})

	return nil
}

// ToggleStatus flips a rule between Active and Inactive
func (s *Service) ToggleStatus(ctx context.Context, ruleID string) (*models.MarketingRule, error) {
	toggled, err := s.store.ToggleStatus(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, ruleID)
	}

	s.logger.Info("marketing rule status toggled", map[string]interface{}{
		"ruleId": toggled.ID,
		"status": toggled.Status,
	})

	return toggled, nil
}

// ActiveRules returns only rules eligible for matching, in list order
func (s *Service) ActiveRules(ctx context.Context) ([]models.MarketingRule, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]models.MarketingRule, 0, len(all))
	for _, rule := range all {
		if rule.IsActive() {
			active = append(active, rule)
		}
	}
	return active, nil
}

func applyDefaults(rule *models.MarketingRule) {
	if rule.CTAPreview == "" {
		rule.CTAPreview = rule.MessageTemplate
	}
	if rule.Status == "" {
		rule.Status = models.RuleStatusActive
	}
	if rule.TargetDemographics == "" && len(rule.DemographicTags) == 0 {
		rule.TargetDemographics = models.TargetAll
	}
}
