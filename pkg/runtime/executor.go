// maestro/pkg/runtime/executor.go

// Package runtime orchestrates one exclusion run: parse rule text,
// build the specification, pre-filter primary rows, join enrichment
// data, re-evaluate the full specification and hand excluded rows to an
// actor.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"maestro/pkg/actors"
	"maestro/pkg/enrich"
	"maestro/pkg/logging"
	"maestro/pkg/report"
	"maestro/pkg/rules"
	"maestro/pkg/specification"
	"maestro/pkg/validator"
)

// RowSource supplies the primary performance report rows.
type RowSource interface {
	Fetch(ctx context.Context) (*report.Report, error)
}

// RunStats is a snapshot of the last completed run, broadcast by the
// dashboard.
type RunStats struct {
	RowsFetched     int       `json:"rows_fetched"`
	RowsPrefiltered int       `json:"rows_prefiltered"`
	RowsEnriched    int       `json:"rows_enriched"`
	RowsExcluded    int       `json:"rows_excluded"`
	Operations      int       `json:"operations"`
	DurationMillis  int64     `json:"duration_millis"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Result of one exclusion run.
type Result struct {
	Excluded   *report.Report
	Operations []*actors.MutateOperation
	Stats      RunStats
}

type Executor struct {
	source      RowSource
	fetchers    *enrich.Registry
	registry    *specification.Registry
	parser      *rules.Parser
	actor       actors.Actor
	primaryType string
	idColumn    string

	statsMutex sync.Mutex
	stats      RunStats
}

// Option adjusts executor defaults.
type Option func(*Executor)

// WithPrimaryType overrides the source type evaluated against the
// primary report (default GOOGLE_ADS_INFO).
func WithPrimaryType(sourceType string) Option {
	return func(e *Executor) {
		e.primaryType = sourceType
		e.parser = rules.NewParser(sourceType)
	}
}

// WithIDColumn overrides the column that identifies a row to the
// enrichment fetchers (default "placement").
func WithIDColumn(column string) Option {
	return func(e *Executor) { e.idColumn = column }
}

func NewExecutor(source RowSource, fetchers *enrich.Registry, registry *specification.Registry, actor actors.Actor, opts ...Option) *Executor {
	e := &Executor{
		source:      source,
		fetchers:    fetchers,
		registry:    registry,
		parser:      rules.NewParser(""),
		actor:       actor,
		primaryType: rules.DefaultSourceType,
		idColumn:    "placement",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run parses raw rule strings and performs one exclusion run.
func (e *Executor) Run(ctx context.Context, rawRules []string) (*Result, error) {
	ruleSet, err := e.parser.ParseStrings(rawRules)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeParse, "failed to parse rules", err, map[string]interface{}{"rules": rawRules})
	}
	return e.run(ctx, ruleSet)
}

// RunExpression parses a combined ` AND `/` OR ` expression and
// performs one exclusion run.
func (e *Executor) RunExpression(ctx context.Context, expression string) (*Result, error) {
	ruleSet, err := e.parser.ParseExpression(expression)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeParse, "failed to parse rule expression", err, map[string]interface{}{"expression": expression})
	}
	return e.run(ctx, ruleSet)
}

func (e *Executor) run(ctx context.Context, ruleSet rules.RuleSet) (*Result, error) {
	started := time.Now()

	if len(ruleSet) > 0 {
		if err := validator.ValidateRuleSet(ruleSet, e.registry.SourceTypes()); err != nil {
			return nil, logging.NewError(logging.ErrorTypeParse, "invalid rule set", err, nil)
		}
	}

	spec, err := specification.FromRuleSet(ruleSet, e.registry)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeParse, "failed to build specification", err, nil)
	}

	rows, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeFetch, "failed to fetch report rows", err, nil)
	}
	logging.Logger.Info().Int("rows", rows.Len()).Msg("Fetched primary report")

	stats := RunStats{RowsFetched: rows.Len()}

	if !spec.IsActive() {
		// No exclusion rules configured; nothing matches.
		logging.Logger.Info().Msg("Inactive specification, no exclusions to perform")
		result := &Result{Excluded: rows.Empty(), Stats: e.finishStats(stats, started)}
		return result, nil
	}

	candidates, err := e.prefilter(spec, rows)
	if err != nil {
		return nil, err
	}
	stats.RowsPrefiltered = candidates.Len()

	enriched, err := e.enrichCandidates(ctx, spec, candidates)
	if err != nil {
		return nil, err
	}
	stats.RowsEnriched = enriched.Len()

	// The projected pre-filter is weaker than the full specification,
	// so the full expression is always re-evaluated here.
	excluded, err := specification.Filter(spec, enriched)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeEvaluate, "failed to evaluate specification", err, nil)
	}
	stats.RowsExcluded = excluded.Len()

	operations, err := e.createOperations(excluded)
	if err != nil {
		return nil, err
	}
	stats.Operations = len(operations)

	logging.Logger.Info().
		Int("excluded", excluded.Len()).
		Int("operations", len(operations)).
		Dur("duration", time.Since(started)).
		Msg("Exclusion run complete")

	return &Result{
		Excluded:   excluded,
		Operations: operations,
		Stats:      e.finishStats(stats, started),
	}, nil
}

// prefilter pushes the primary-source part of the specification over
// the raw report before enrichment lookups are paid for.
func (e *Executor) prefilter(spec *specification.ExclusionSpecification, rows *report.Report) (*report.Report, error) {
	primary := spec.EntriesForType(e.primaryType)
	if !primary.IsActive() {
		return rows, nil
	}
	candidates, err := specification.Filter(primary, rows)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeEvaluate, "failed to pre-filter report", err, nil)
	}
	logging.Logger.Debug().Int("candidates", candidates.Len()).Msg("Pre-filtered primary report")
	return candidates, nil
}

func (e *Executor) enrichCandidates(ctx context.Context, spec *specification.ExclusionSpecification, candidates *report.Report) (*report.Report, error) {
	enriched := candidates
	for _, sourceType := range spec.SourceTypes() {
		if sourceType == e.primaryType {
			continue
		}
		fetcher, err := e.fetchers.Lookup(sourceType)
		if err != nil {
			return nil, logging.NewError(logging.ErrorTypeFetch, "no fetcher for enrichment source", err, map[string]interface{}{"source_type": sourceType})
		}

		ids, err := e.candidateIDs(enriched)
		if err != nil {
			return nil, err
		}
		records, err := fetcher(ctx, ids, nil)
		if err != nil {
			return nil, logging.NewError(logging.ErrorTypeFetch, "enrichment fetch failed", err, map[string]interface{}{"source_type": sourceType})
		}

		fields := spec.EntriesForType(sourceType).Fields()
		enriched, err = enrich.Join(enriched, e.idColumn, fields, records)
		if err != nil {
			return nil, logging.NewError(logging.ErrorTypeFetch, "failed to join enrichment data", err, map[string]interface{}{"source_type": sourceType})
		}
		logging.Logger.Debug().
			Str("source_type", sourceType).
			Int("records", len(records)).
			Int("rows", enriched.Len()).
			Msg("Joined enrichment source")
	}
	return enriched, nil
}

func (e *Executor) candidateIDs(rep *report.Report) ([]string, error) {
	values, err := rep.Column(e.idColumn)
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeFetch, "missing identifier column", err, map[string]interface{}{"column": e.idColumn})
	}
	var ids []string
	seen := make(map[string]bool)
	for _, value := range values {
		id := fmt.Sprintf("%v", value)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (e *Executor) createOperations(excluded *report.Report) ([]*actors.MutateOperation, error) {
	if e.actor == nil {
		return nil, nil
	}
	var operations []*actors.MutateOperation
	for i := 0; i < excluded.Len(); i++ {
		operation, err := e.actor.CreateMutateOperation(excluded.Row(i))
		if err != nil {
			return nil, logging.NewError(logging.ErrorTypeActor, "failed to create mutate operation", err, nil)
		}
		operations = append(operations, operation)
	}
	return operations, nil
}

func (e *Executor) finishStats(stats RunStats, started time.Time) RunStats {
	stats.DurationMillis = time.Since(started).Milliseconds()
	stats.CompletedAt = time.Now()

	e.statsMutex.Lock()
	e.stats = stats
	e.statsMutex.Unlock()
	return stats
}

// GetStats returns a snapshot of the last run's statistics.
func (e *Executor) GetStats() RunStats {
	e.statsMutex.Lock()
	defer e.statsMutex.Unlock()
	return e.stats
}
