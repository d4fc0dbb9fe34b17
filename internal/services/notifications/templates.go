// internal/services/notifications/templates.go
package notifications

import (
	"fmt"
	"strings"
)

func loadTemplates() map[string]map[string]string {
	return map[string]map[string]string{
		TypeLoginAlert: {
			"subject": "New sign-in to your WorkWise account",
			"body":    "We noticed a sign-in from {{deviceInfo}} at {{ipAddress}}. If this was not you, review your security settings.",
		},
		TypeTwoFactorChanged: {
			"subject": "Two-factor authentication updated",
			"body":    "Two-factor authentication on your account was {{action}}. If you did not make this change, contact support immediately.",
		},
		TypePaymentReceipt: {
			"subject": "Payment confirmation",
			"body":    "We received your payment of {{amount}} {{currency}}. Reference: {{intentId}}.",
		},
		TypeNewJobMatch: {
			"subject": "New jobs matching your profile",
			"body":    "{{jobTitle}} at {{company}} in {{location}} was just posted. Apply now on WorkWise.",
		},
	}
}

func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Unresolved placeholders render as empty strings
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
