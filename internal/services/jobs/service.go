// internal/services/jobs/service.go
package jobs

import (
	"context"

	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"
	"workwise-backend/internal/services/marketing/matcher"
)

// RuleProvider supplies the active marketing rules in evaluation order
type RuleProvider interface {
	ActiveRules(ctx context.Context) ([]models.MarketingRule, error)
}

// EventRecorder logs CTA view and click events
type EventRecorder interface {
	RecordView(ctx context.Context, ruleID string) error
	RecordClick(ctx context.Context, ruleID string) error
}

// Searcher runs job searches against the search index
type Searcher interface {
	Query(ctx context.Context, query models.JobSearchQuery) (*models.JobSearchResult, error)
}

// Service serves job listings with marketing CTAs injected on the way out
type Service struct {
	store    *Store
	search   Searcher
	rules    RuleProvider
	recorder EventRecorder
	logger   logger.Logger
}

func NewService(store *Store, search Searcher, rules RuleProvider, recorder EventRecorder, log logger.Logger) *Service {
	return &Service{
		store:    store,
		search:   search,
		rules:    rules,
		recorder: recorder,
		logger:   log.WithFields(map[string]interface{}{"service": "jobs"}),
	}
}

// List returns a page of listings with CTAs injected. List views do not
// record impressions; only detail views count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.JobListing, error) {
	listings, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	rulesList := s.activeRules(ctx)
	for i := range listings {
		matcher.MatchAndApply(rulesList, &listings[i])
	}

	return listings, nil
}

// Get returns a single listing with the CTA injected, recording a view
// event for the matched rule
func (s *Service) Get(ctx context.Context, jobID string) (*models.JobListing, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	rulesList := s.activeRules(ctx)
	if rule := matcher.MatchAndApply(rulesList, job); rule != nil {
		if err := s.recorder.RecordView(ctx, rule.ID); err != nil {
			// Analytics must not break listing reads
			s.logger.Warn("failed to record CTA view", map[string]interface{}{
				"jobId":  jobID,
				"ruleId": rule.ID,
				"error":  err.Error(),
			})
		}
	}

	return job, nil
}

// Search runs a query against the job index and injects CTAs into the
// results
func (s *Service) Search(ctx context.Context, query models.JobSearchQuery) (*models.JobSearchResult, error) {
	result, err := s.search.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	rulesList := s.activeRules(ctx)
	for i := range result.Jobs {
		matcher.MatchAndApply(rulesList, &result.Jobs[i])
	}

	return result, nil
}

// TrackClick records a CTA click for the given rule
func (s *Service) TrackClick(ctx context.Context, ruleID string) error {
	return s.recorder.RecordClick(ctx, ruleID)
}

func (s *Service) activeRules(ctx context.Context) []models.MarketingRule {
	rulesList, err := s.rules.ActiveRules(ctx)
	if err != nil {
		// Listings still render without CTAs when the rule store is down
		s.logger.Warn("failed to load active rules", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return rulesList
}
