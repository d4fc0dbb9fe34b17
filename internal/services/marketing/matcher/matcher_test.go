package matcher

import (
	"testing"

	"workwise-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func testRule(name, location, jobType string, status models.RuleStatus) models.MarketingRule {
	return models.MarketingRule{
		ID:              "rule-" + name,
		RuleName:        name,
		TargetLocation:  location,
		TargetJobType:   jobType,
		MessageTemplate: "Apply through WorkWise today",
		CTALink:         "https://workwise.example/apply",
		Status:          status,
	}
}

func withDemographics(rule models.MarketingRule, target string, tags ...string) models.MarketingRule {
	rule.TargetDemographics = target
	rule.DemographicTags = tags
	return rule
}

func withTags(job *models.JobListing, tags ...string) *models.JobListing {
	job.DemographicTags = tags
	return job
}

func testJob(location, jobType string) *models.JobListing {
	return &models.JobListing{
		ID:       "job-1",
		Title:    "Retail Assistant",
		Company:  "Acme Stores",
		Location: location,
		JobType:  jobType,
		ContactInfo: models.ContactInfo{
			Email:             "jobs@acme.example",
			Phone:             "+27115550100",
			ApplyInstructions: "Email your CV",
		},
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		rules    []models.MarketingRule
		job      *models.JobListing
		wantRule string // empty means no match
	}{
		{
			name: "inactive rule never matches",
			rules: []models.MarketingRule{
				testRule("inactive", "All", "All", models.RuleStatusInactive),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "",
		},
		{
			name: "All location and All job type match anything",
			rules: []models.MarketingRule{
				testRule("catch-all", "All", "All", models.RuleStatusActive),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "rule-catch-all",
		},
		{
			name: "All Locations alias matches any location",
			rules: []models.MarketingRule{
				testRule("legacy-all", "All Locations", "All", models.RuleStatusActive),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "rule-legacy-all",
		},
		{
			name: "location mismatch does not match",
			rules: []models.MarketingRule{
				testRule("gauteng", "Gauteng", "All", models.RuleStatusActive),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "",
		},
		{
			name: "exact location and job type match",
			rules: []models.MarketingRule{
				testRule("durban-retail", "Durban", "Retail", models.RuleStatusActive),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "rule-durban-retail",
		},
		{
			name: "job type mismatch does not match",
			rules: []models.MarketingRule{
				testRule("hospitality", "Durban", "Hospitality", models.RuleStatusActive),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "",
		},
		{
			name: "first active match wins",
			rules: []models.MarketingRule{
				testRule("inactive-first", "All", "All", models.RuleStatusInactive),
				testRule("second", "Durban", "All", models.RuleStatusActive),
				testRule("third", "All", "All", models.RuleStatusActive),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "rule-second",
		},
		{
			name: "demographic target must be carried by the listing",
			rules: []models.MarketingRule{
				withDemographics(testRule("youth", "All", "All", models.RuleStatusActive), "youth"),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "",
		},
		{
			name: "demographic target matches a tagged listing",
			rules: []models.MarketingRule{
				withDemographics(testRule("youth", "All", "All", models.RuleStatusActive), "youth"),
			},
			job:      withTags(testJob("Durban", "Retail"), "youth", "entry-level"),
			wantRule: "rule-youth",
		},
		{
			name: "demographic tag list matches on any shared tag",
			rules: []models.MarketingRule{
				withDemographics(testRule("grads", "All", "All", models.RuleStatusActive), "", "graduates", "youth"),
			},
			job:      withTags(testJob("Durban", "Retail"), "youth"),
			wantRule: "rule-grads",
		},
		{
			name: "All demographics matches untagged listings",
			rules: []models.MarketingRule{
				withDemographics(testRule("everyone", "All", "All", models.RuleStatusActive), models.TargetAll),
			},
			job:      testJob("Durban", "Retail"),
			wantRule: "rule-everyone",
		},
		{
			name:     "no rules means no match",
			rules:    nil,
			job:      testJob("Durban", "Retail"),
			wantRule: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.rules, tt.job)
			if tt.wantRule == "" {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, tt.wantRule, got.ID)
			}
		})
	}
}

func TestApplyReplacesContactInfo(t *testing.T) {
	rule := testRule("durban", "Durban", "All", models.RuleStatusActive)
	job := testJob("Durban", "Retail")

	Apply(&rule, job)

	assert.Equal(t, rule.MessageTemplate, job.ContactInfo.CTAMessage)
	assert.Equal(t, rule.CTALink, job.ContactInfo.CTALink)
	assert.Empty(t, job.ContactInfo.Email)
	assert.Empty(t, job.ContactInfo.Phone)
	assert.Empty(t, job.ContactInfo.ApplyInstructions)
}

func TestMatchAndApply(t *testing.T) {
	t.Run("match applies CTA", func(t *testing.T) {
		rulesList := []models.MarketingRule{
			testRule("catch-all", "All", "All", models.RuleStatusActive),
		}
		job := testJob("Cape Town", "Security")

		matched := MatchAndApply(rulesList, job)

		assert.NotNil(t, matched)
		assert.Equal(t, "https://workwise.example/apply", job.ContactInfo.CTALink)
	})

	t.Run("no match leaves contact info untouched", func(t *testing.T) {
		rulesList := []models.MarketingRule{
			testRule("gauteng", "Gauteng", "All", models.RuleStatusActive),
		}
		job := testJob("Durban", "Retail")

		matched := MatchAndApply(rulesList, job)

		assert.Nil(t, matched)
		assert.Equal(t, "jobs@acme.example", job.ContactInfo.Email)
		assert.Equal(t, "Email your CV", job.ContactInfo.ApplyInstructions)
	})
}
