// maestro/pkg/rules/tokenizer.go

package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by condition tokenizing. Callers report the
// offending expression text verbatim, so both are wrapped with %w and
// the raw input.
var (
	ErrExpressionLength = errors.New("incorrect expression length")
	ErrUnknownOperator  = errors.New("incorrect operator")
)

// Condition is the tokenized form of one `field operator value` string.
type Condition struct {
	Field    string
	Operator string
	Value    string
}

// Word operators must be space-delimited so field names containing the
// operator text (e.g. `regexp_count`) do not split. Symbol operators
// are ordered longest-match first so `>` never shadows `>=`.
var (
	wordOperators   = []string{"regexp", "contains", "letter_set"}
	symbolOperators = []string{">=", "<=", "!=", ">", "<", "="}
)

// Operators returns the recognized operator vocabulary, longest-match
// first.
func Operators() []string {
	out := make([]string, 0, len(wordOperators)+len(symbolOperators))
	out = append(out, wordOperators...)
	out = append(out, symbolOperators...)
	return out
}

// ParseCondition splits a single condition string into field, operator
// and value. A condition must contain exactly a non-empty field name, a
// recognized operator and a non-empty value.
func ParseCondition(expression string) (Condition, error) {
	trimmed := strings.TrimSpace(expression)

	for _, op := range wordOperators {
		idx := strings.Index(trimmed, " "+op+" ")
		if idx < 0 {
			continue
		}
		return splitCondition(trimmed, op, idx, idx+len(op)+2)
	}
	for _, op := range symbolOperators {
		idx := strings.Index(trimmed, op)
		if idx < 0 {
			continue
		}
		return splitCondition(trimmed, op, idx, idx+len(op))
	}

	// No recognized operator. Distinguish a malformed short expression
	// from one with an unknown operator token.
	if tokens := strings.Fields(trimmed); len(tokens) >= 3 {
		return Condition{}, fmt.Errorf("%w %q in expression %q", ErrUnknownOperator, tokens[1], expression)
	}
	return Condition{}, fmt.Errorf("%w: %q", ErrExpressionLength, expression)
}

func splitCondition(trimmed, op string, start, end int) (Condition, error) {
	field := strings.TrimSpace(trimmed[:start])
	value := strings.TrimSpace(trimmed[end:])
	if field == "" || value == "" {
		return Condition{}, fmt.Errorf("%w: %q", ErrExpressionLength, trimmed)
	}
	return Condition{Field: field, Operator: op, Value: value}, nil
}
