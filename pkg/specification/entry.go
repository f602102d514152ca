// maestro/pkg/specification/entry.go

// Package specification compiles parsed exclusion rules into evaluable
// predicates and combines them into the full boolean expression (an OR
// of AND groups) applied to report rows.
package specification

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"maestro/pkg/report"
	"maestro/pkg/rules"
)

// Entry is one compiled condition bound to a source type. Different
// source-type families provide their own entry variant; all expose the
// same IsSatisfiedBy contract.
type Entry interface {
	SourceType() string
	Field() string
	Operator() string
	Value() string
	IsSatisfiedBy(row report.Row) (bool, error)
}

// baseEntry carries the shared tokenize-and-compare behavior of all
// entry variants.
type baseEntry struct {
	sourceType string
	field      string
	operator   string
	value      string
	pattern    *regexp.Regexp
}

func newBaseEntry(sourceType, expression string) (baseEntry, error) {
	condition, err := rules.ParseCondition(expression)
	if err != nil {
		return baseEntry{}, err
	}
	if condition.Operator == "letter_set" {
		return baseEntry{}, fmt.Errorf(
			"letter_set shorthand in %q must be expanded by the rule parser", expression)
	}

	entry := baseEntry{
		sourceType: sourceType,
		field:      condition.Field,
		operator:   condition.Operator,
		value:      condition.Value,
	}
	if condition.Operator == "regexp" {
		// Macro expansion wraps patterns in single quotes; strip them
		// before compiling.
		pattern, err := regexp.Compile(stripQuotes(condition.Value))
		if err != nil {
			return baseEntry{}, fmt.Errorf("invalid regexp in expression %q: %w", expression, err)
		}
		entry.pattern = pattern
	}
	return entry, nil
}

func (e baseEntry) SourceType() string { return e.sourceType }
func (e baseEntry) Field() string      { return e.field }
func (e baseEntry) Operator() string   { return e.operator }
func (e baseEntry) Value() string      { return e.value }

// IsSatisfiedBy evaluates the condition against a row. A field absent
// from the row is a hard error, never a false result: a misconfigured
// rule must not silently match nothing.
func (e baseEntry) IsSatisfiedBy(row report.Row) (bool, error) {
	raw, err := row.Get(e.field)
	if err != nil {
		return false, err
	}

	switch e.operator {
	case ">", "<", ">=", "<=":
		left, lok := toFloat(raw)
		right, rok := toFloat(e.value)
		if !lok || !rok {
			return false, fmt.Errorf(
				"non-numeric comparison %q %s %q for field %q",
				stringify(raw), e.operator, e.value, e.field)
		}
		return compareFloat(left, right, e.operator), nil
	case "=", "!=":
		// Numeric when both sides parse as numbers, so "10", 10 and
		// 10.0 all compare equal; otherwise case-sensitive strings.
		equal := false
		left, lok := toFloat(raw)
		right, rok := toFloat(e.value)
		if lok && rok {
			equal = left == right
		} else {
			equal = stringify(raw) == e.value
		}
		if e.operator == "!=" {
			return !equal, nil
		}
		return equal, nil
	case "contains":
		return strings.Contains(stringify(raw), e.value), nil
	case "regexp":
		// Search-anywhere semantics; anchoring is up to the rule author.
		return e.pattern.MatchString(stringify(raw)), nil
	default:
		return false, fmt.Errorf("%w %q", rules.ErrUnknownOperator, e.operator)
	}
}

func compareFloat(a, b float64, operator string) bool {
	switch operator {
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	default:
		return false
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func stripQuotes(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		return value[1 : len(value)-1]
	}
	return value
}

// AdsEntry evaluates conditions against primary performance report
// rows.
type AdsEntry struct {
	baseEntry
}

func NewAdsEntry(expression string) (*AdsEntry, error) {
	base, err := newBaseEntry(rules.DefaultSourceType, expression)
	if err != nil {
		return nil, err
	}
	return &AdsEntry{baseEntry: base}, nil
}

// EnrichmentEntry evaluates conditions against fields joined onto rows
// from a secondary metadata source (website, YouTube video or channel
// lookups).
type EnrichmentEntry struct {
	baseEntry
}

func NewEnrichmentEntry(sourceType, expression string) (*EnrichmentEntry, error) {
	base, err := newBaseEntry(sourceType, expression)
	if err != nil {
		return nil, err
	}
	return &EnrichmentEntry{baseEntry: base}, nil
}

// entriesEqual compares two entries on their observable parts.
func entriesEqual(a, b Entry) bool {
	return a.SourceType() == b.SourceType() &&
		a.Field() == b.Field() &&
		a.Operator() == b.Operator() &&
		a.Value() == b.Value()
}
