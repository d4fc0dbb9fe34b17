// Package matcher decides which marketing rule, if any, applies to a job
// listing and rewrites the listing's contact section with the rule's CTA.
package matcher

import (
	"workwise-backend/internal/common/metrics"
	"workwise-backend/internal/models"
)

// Match returns the first rule that applies to the job, in the order the
// rules are given. Inactive rules never match. Returns nil when no rule
// applies.
func Match(rulesList []models.MarketingRule, job *models.JobListing) *models.MarketingRule {
	if job == nil {
		return nil
	}

	for i := range rulesList {
		rule := &rulesList[i]
		if !rule.IsActive() {
			continue
		}
		if !rule.MatchesLocation(job.Location) {
			continue
		}
		if !rule.MatchesJobType(job.JobType) {
			continue
		}
		if !rule.MatchesDemographics(job.DemographicTags) {
			continue
		}
		return rule
	}

	return nil
}

// Apply replaces the job's contact section with the rule's CTA. The
// original employer contact details are dropped so applicants are routed
// through the campaign link.
func Apply(rule *models.MarketingRule, job *models.JobListing) {
	if rule == nil || job == nil {
		return
	}

	job.ContactInfo = models.ContactInfo{
		CTAMessage: rule.MessageTemplate,
		CTALink:    rule.CTALink,
	}

	metrics.RuleMatchesTotal.WithLabelValues(rule.ID).Inc()
}

// MatchAndApply is the common path for listing views: find the first
// applicable rule and inject its CTA. Returns the matched rule or nil.
func MatchAndApply(rulesList []models.MarketingRule, job *models.JobListing) *models.MarketingRule {
	rule := Match(rulesList, job)
	if rule != nil {
		Apply(rule, job)
	}
	return rule
}
