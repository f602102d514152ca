// maestro/pkg/specification/specification.go

package specification

import (
	"maestro/pkg/logging"
	"maestro/pkg/report"
	"maestro/pkg/rules"
)

// ExclusionSpecification is the evaluable form of a RuleSet: a
// disjunction of conjunctions of entries. A specification with no
// non-empty group is inactive and matches nothing.
type ExclusionSpecification struct {
	groups [][]Entry
}

func New(groups [][]Entry) *ExclusionSpecification {
	return &ExclusionSpecification{groups: groups}
}

// FromRuleSet compiles every rule through the entry factory registered
// for its source type, preserving group structure.
func FromRuleSet(ruleSet rules.RuleSet, registry *Registry) (*ExclusionSpecification, error) {
	var groups [][]Entry
	for _, ruleGroup := range ruleSet {
		var entries []Entry
		for _, rule := range ruleGroup {
			entry, err := registry.Create(rule.Type, rule.Expression)
			if err != nil {
				logging.Logger.Error().Err(err).
					Str("source_type", rule.Type).
					Str("expression", rule.Expression).
					Msg("Failed to build specification entry")
				return nil, err
			}
			entries = append(entries, entry)
		}
		groups = append(groups, entries)
	}
	return New(groups), nil
}

// IsActive reports whether the specification holds at least one
// non-empty group.
func (s *ExclusionSpecification) IsActive() bool {
	for _, group := range s.groups {
		if len(group) > 0 {
			return true
		}
	}
	return false
}

func (s *ExclusionSpecification) Groups() [][]Entry {
	return s.groups
}

// Satisfies returns true iff any group's entries all hold for the row.
// Evaluation short-circuits at the first false entry within a group and
// at the first satisfied group. Evaluation errors propagate.
func (s *ExclusionSpecification) Satisfies(row report.Row) (bool, error) {
	for _, group := range s.groups {
		if len(group) == 0 {
			continue
		}
		satisfied := true
		for _, entry := range group {
			ok, err := entry.IsSatisfiedBy(row)
			if err != nil {
				return false, err
			}
			if !ok {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true, nil
		}
	}
	return false, nil
}

// EntriesForType projects the specification down to entries of one
// source type; groups that become empty are dropped. The projection is
// necessarily weaker than the full specification and serves only as a
// pre-filter before enrichment, never as the final acceptance test.
func (s *ExclusionSpecification) EntriesForType(sourceType string) *ExclusionSpecification {
	var groups [][]Entry
	for _, group := range s.groups {
		var entries []Entry
		for _, entry := range group {
			if entry.SourceType() == sourceType {
				entries = append(entries, entry)
			}
		}
		if len(entries) > 0 {
			groups = append(groups, entries)
		}
	}
	return New(groups)
}

// SourceTypes returns the tags referenced by the specification, in
// first-appearance order without duplicates.
func (s *ExclusionSpecification) SourceTypes() []string {
	var types []string
	seen := make(map[string]bool)
	for _, group := range s.groups {
		for _, entry := range group {
			if !seen[entry.SourceType()] {
				seen[entry.SourceType()] = true
				types = append(types, entry.SourceType())
			}
		}
	}
	return types
}

// Fields returns the field names referenced by the specification, in
// first-appearance order without duplicates.
func (s *ExclusionSpecification) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, group := range s.groups {
		for _, entry := range group {
			if !seen[entry.Field()] {
				seen[entry.Field()] = true
				fields = append(fields, entry.Field())
			}
		}
	}
	return fields
}

// Equal reports order-sensitive structural equality; no canonical
// sorting is performed, so re-parsing the same configuration yields an
// equal specification.
func (s *ExclusionSpecification) Equal(other *ExclusionSpecification) bool {
	if other == nil || len(s.groups) != len(other.groups) {
		return false
	}
	for i, group := range s.groups {
		if len(group) != len(other.groups[i]) {
			return false
		}
		for j, entry := range group {
			if !entriesEqual(entry, other.groups[i][j]) {
				return false
			}
		}
	}
	return true
}
