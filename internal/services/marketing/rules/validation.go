// internal/services/marketing/rules/validation.go
package rules

import (
	"strings"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/validation"
	"workwise-backend/internal/models"
)

// ruleSchema validates the shape of incoming rule payloads before the
// service applies its own defaults.
var ruleSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"ruleName": map[string]interface{}{
			"type":      "string",
			"minLength": 3,
		},
		"targetLocation": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"targetJobType": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"targetDemographics": map[string]interface{}{
			"type": "string",
		},
		"demographicTags": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"messageTemplate": map[string]interface{}{
			"type":      "string",
			"minLength": 5,
		},
		"ctaLink": map[string]interface{}{
			"type": "string",
		},
		"ctaPreview": map[string]interface{}{
			"type": "string",
		},
		"status": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"Active", "Inactive"},
		},
	},
	"required": []interface{}{"ruleName", "targetLocation", "targetJobType", "messageTemplate", "ctaLink"},
}

// ValidatePayload checks a decoded rule payload against the schema
func ValidatePayload(payload map[string]interface{}) error {
	result, err := validation.ValidateDocument(ruleSchema, payload)
	if err != nil {
		return errors.NewRuleValidationFailedError(err.Error())
	}
	if !result.Valid {
		return errors.NewRuleValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

// ValidateRule enforces the field constraints the schema cannot express
func ValidateRule(rule *models.MarketingRule) error {
	if len(strings.TrimSpace(rule.RuleName)) < 3 {
		return errors.NewRuleValidationFailedError("ruleName must be at least 3 characters")
	}
	if len(strings.TrimSpace(rule.MessageTemplate)) < 5 {
		return errors.NewRuleValidationFailedError("messageTemplate must be at least 5 characters")
	}
	if rule.TargetLocation == "" {
		return errors.NewRuleValidationFailedError("targetLocation is required")
	}
	if rule.TargetJobType == "" {
		return errors.NewRuleValidationFailedError("targetJobType is required")
	}
	if !validation.ValidateURL(rule.CTALink) {
		return errors.NewRuleValidationFailedError("ctaLink must be a valid URL")
	}
	if rule.Status != "" && rule.Status != models.RuleStatusActive && rule.Status != models.RuleStatusInactive {
		return errors.NewRuleValidationFailedError("status must be Active or Inactive")
	}
	return nil
}
