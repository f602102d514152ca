// maestro/pkg/rules/parser.go

// Package rules turns raw exclusion rule text into a two-level boolean
// structure: groups of conditions ANDed together, groups ORed together
// (disjunctive normal form). Conditions are tagged with the data source
// they apply to; untyped conditions inherit the parser's default source
// type.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"maestro/pkg/logging"
)

// DefaultSourceType tags conditions evaluated against the primary
// performance report.
const DefaultSourceType = "GOOGLE_ADS_INFO"

// ErrUnknownLetterSet is returned for a letter_set condition naming a
// character set absent from the macro table.
var ErrUnknownLetterSet = errors.New("unknown letter set")

// Rule is one (sourceType, expression) condition as written by the
// operator. Rules are immutable and comparable.
type Rule struct {
	Type       string
	Expression string
}

// RuleGroup is a conjunction (AND) of rules.
type RuleGroup []Rule

// RuleSet is a disjunction (OR) of rule groups.
type RuleSet []RuleGroup

// Separators of the combined-expression rule form. Within a raw rule
// string the clause separator is a comma.
const (
	andSeparator = " AND "
	orSeparator  = " OR "
)

// defaultMacros maps named character sets to the regular expression the
// letter_set shorthand expands into. The macro table is the single
// extension point for adding character-class shortcuts.
var defaultMacros = map[string]string{
	"latin_only": `^[a-zA-Z0-9\s\W]*$`,
	"no_latin":   `^[^a-zA-Z]*$`,
}

type Parser struct {
	defaultType string
	macros      map[string]string
}

// NewParser returns a parser tagging untyped conditions with
// defaultType, or DefaultSourceType when empty.
func NewParser(defaultType string) *Parser {
	if defaultType == "" {
		defaultType = DefaultSourceType
	}
	macros := make(map[string]string, len(defaultMacros))
	for name, pattern := range defaultMacros {
		macros[name] = pattern
	}
	return &Parser{defaultType: defaultType, macros: macros}
}

// RegisterMacro adds a named character set to the letter_set table.
func (p *Parser) RegisterMacro(name, pattern string) {
	p.macros[name] = pattern
}

// ParseStrings parses raw rule strings of the form `[TYPE:]expr[,expr]*`.
// Each element becomes one RuleGroup; comma-separated conditions within
// an element are ANDed, elements are ORed.
func (p *Parser) ParseStrings(raw []string) (RuleSet, error) {
	logging.Logger.Debug().Strs("raw_rules", raw).Msg("Parsing raw rule strings")
	var ruleSet RuleSet
	for _, element := range raw {
		group, err := p.parseGroup(strings.Split(element, ","))
		if err != nil {
			logging.Logger.Error().Err(err).Str("rule", element).Msg("Invalid rule")
			return nil, err
		}
		ruleSet = append(ruleSet, group)
	}
	return ruleSet, nil
}

// ParseExpression parses a single combined expression using the literal
// ` AND ` and ` OR ` separators, e.g.
// `TYPE:clicks > 0 AND TYPE:cost > 100 OR TYPE:conversions = 0`.
func (p *Parser) ParseExpression(expression string) (RuleSet, error) {
	logging.Logger.Debug().Str("expression", expression).Msg("Parsing combined rule expression")
	var ruleSet RuleSet
	for _, clause := range strings.Split(expression, orSeparator) {
		group, err := p.parseGroup(strings.Split(clause, andSeparator))
		if err != nil {
			logging.Logger.Error().Err(err).Str("clause", clause).Msg("Invalid clause")
			return nil, err
		}
		ruleSet = append(ruleSet, group)
	}
	return ruleSet, nil
}

func (p *Parser) parseGroup(conditions []string) (RuleGroup, error) {
	var group RuleGroup
	for _, condition := range conditions {
		rule, err := p.parseRule(condition)
		if err != nil {
			return nil, err
		}
		group = append(group, rule)
	}
	return group, nil
}

func (p *Parser) parseRule(raw string) (Rule, error) {
	sourceType, expression := p.splitSourceType(strings.TrimSpace(raw))

	condition, err := ParseCondition(expression)
	if err != nil {
		return Rule{}, err
	}

	if condition.Operator == "letter_set" {
		pattern, ok := p.macros[condition.Value]
		if !ok {
			return Rule{}, fmt.Errorf("%w %q in expression %q", ErrUnknownLetterSet, condition.Value, raw)
		}
		expression = fmt.Sprintf("%s regexp '%s'", condition.Field, pattern)
	}

	return Rule{Type: sourceType, Expression: expression}, nil
}

// splitSourceType strips an optional leading `TYPE:` tag. A colon only
// marks a type tag when the text before it contains no spaces, so
// condition values holding colons are left intact.
func (p *Parser) splitSourceType(raw string) (string, string) {
	idx := strings.Index(raw, ":")
	if idx <= 0 || strings.ContainsAny(raw[:idx], " \t") {
		return p.defaultType, raw
	}
	return raw[:idx], strings.TrimSpace(raw[idx+1:])
}
