// maestro/pkg/validator/validator.go

// Package validator performs pre-flight checks on a parsed rule set
// before any report rows are fetched.
package validator

import (
	"fmt"
	"strings"

	"maestro/pkg/rules"
)

// ValidateRuleSet rejects rule sets that could never exclude anything
// or reference a source type no entry factory is registered for.
func ValidateRuleSet(ruleSet rules.RuleSet, availableTypes []string) error {
	hasRules := false
	known := make(map[string]bool, len(availableTypes))
	for _, sourceType := range availableTypes {
		known[sourceType] = true
	}

	for _, group := range ruleSet {
		for _, rule := range group {
			hasRules = true
			if rule.Type == "" {
				return fmt.Errorf("rule %q has no source type", rule.Expression)
			}
			if !known[rule.Type] {
				return fmt.Errorf(
					"rule %q references unknown source type %q, select one of available: %s",
					rule.Expression, rule.Type, strings.Join(availableTypes, ", "))
			}
		}
	}

	if !hasRules {
		return fmt.Errorf("rule set must have at least one condition")
	}
	return nil
}
