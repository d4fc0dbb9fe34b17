// internal/models/marketing.go
package models

import "time"

// RuleStatus represents the lifecycle state of a marketing rule
type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "Active"
	RuleStatusInactive RuleStatus = "Inactive"
)

// TargetAll matches any location or job type when used as a rule target.
// "All Locations" is accepted as a legacy alias for location targets.
const (
	TargetAll          = "All"
	TargetAllLocations = "All Locations"
)

// MarketingRule defines a CTA injection rule applied to job listings
type MarketingRule struct {
	ID                 string     `json:"id" db:"id"`
	RuleName           string     `json:"ruleName" db:"rule_name"`
	TargetLocation     string     `json:"targetLocation" db:"target_location"`
	TargetJobType      string     `json:"targetJobType" db:"target_job_type"`
	TargetDemographics string     `json:"targetDemographics" db:"target_demographics"`
	DemographicTags    []string   `json:"demographicTags" db:"demographic_tags"`
	MessageTemplate    string     `json:"messageTemplate" db:"message_template"`
	CTALink            string     `json:"ctaLink" db:"cta_link"`
	CTAPreview         string     `json:"ctaPreview" db:"cta_preview"`
	Status             RuleStatus `json:"status" db:"status"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the rule participates in matching
func (r *MarketingRule) IsActive() bool {
	return r.Status == RuleStatusActive
}

// MatchesLocation reports whether the rule targets the given job location
func (r *MarketingRule) MatchesLocation(location string) bool {
	return r.TargetLocation == TargetAll || r.TargetLocation == TargetAllLocations || r.TargetLocation == location
}

// MatchesJobType reports whether the rule targets the given job type
func (r *MarketingRule) MatchesJobType(jobType string) bool {
	return r.TargetJobType == TargetAll || r.TargetJobType == jobType
}

// MatchesDemographics reports whether the rule targets a listing carrying
// the given demographic tags. A rule with no demographic targeting matches
// every listing. When DemographicTags are set the listing must carry at
// least one of them; otherwise the single TargetDemographics value is
// compared against the listing's tags.
func (r *MarketingRule) MatchesDemographics(tags []string) bool {
	if len(r.DemographicTags) > 0 {
		for _, want := range r.DemographicTags {
			for _, have := range tags {
				if want == have {
					return true
				}
			}
		}
		return false
	}
	if r.TargetDemographics == "" || r.TargetDemographics == TargetAll {
		return true
	}
	for _, have := range tags {
		if r.TargetDemographics == have {
			return true
		}
	}
	return false
}

// RuleAnalyticsEntry aggregates view and click events for one rule
type RuleAnalyticsEntry struct {
	RuleID      string    `json:"ruleId" db:"rule_id"`
	Views       int64     `json:"views" db:"views"`
	Clicks      int64     `json:"clicks" db:"clicks"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}

// Trend directions for per-rule analytics, comparing the current
// reporting window against the preceding one
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// RuleAnalytics is the per-rule analytics view returned to clients
type RuleAnalytics struct {
	RuleID   string  `json:"ruleId"`
	RuleName string  `json:"ruleName"`
	Views    int64   `json:"views"`
	Clicks   int64   `json:"clicks"`
	CTR      float64 `json:"ctr"`
	Trend    string  `json:"trend"`
}

// MarketingRuleStats summarizes the state of the rule engine
type MarketingRuleStats struct {
	ActiveRules   int     `json:"activeRules"`
	InactiveRules int     `json:"inactiveRules"`
	JobsProcessed int64   `json:"jobsProcessed"`
	CTAClickRate  float64 `json:"ctaClickRate"`
}

// RulePerformance is a single entry of the per-rule performance breakdown
type RulePerformance struct {
	Name   string `json:"name"`
	Clicks int64  `json:"clicks"`
}

// MarketingAnalytics is the period-over-period analytics summary
type MarketingAnalytics struct {
	TotalViews          int64             `json:"totalViews"`
	ViewsChangePercent  float64           `json:"viewsChangePercent"`
	TotalClicks         int64             `json:"totalClicks"`
	ClicksChangePercent float64           `json:"clicksChangePercent"`
	ClickThroughRate    float64           `json:"clickThroughRate"`
	CTRChangePercent    float64           `json:"ctrChangePercent"`
	PerformanceByRule   []RulePerformance `json:"performanceByRule"`
}
