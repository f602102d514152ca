// maestro/pkg/runtime/executor_test.go

package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maestro/pkg/actors"
	"maestro/pkg/enrich"
	"maestro/pkg/report"
	"maestro/pkg/specification"
	"maestro/pkg/store"
)

type fakeSource struct {
	report *report.Report
	err    error
}

func (s *fakeSource) Fetch(context.Context) (*report.Report, error) {
	return s.report, s.err
}

func placementsSource(t *testing.T) *fakeSource {
	t.Helper()
	rep, err := report.New(
		[]string{"customer_id", "campaign_id", "ad_group_id", "placement", "placement_type", "clicks", "conversions"},
		[][]interface{}{
			{1, 11, 21, "suspicious.com", "WEBSITE", 100, 0},
			{1, 11, 21, "ok.com", "WEBSITE", 100, 0},
			{1, 11, 21, "lowclicks.com", "WEBSITE", 1, 0},
			{1, 11, 21, "noinfo.com", "WEBSITE", 100, 0},
		},
	)
	require.NoError(t, err)
	return &fakeSource{report: rep}
}

func websiteFetchers() *enrich.Registry {
	registry := enrich.NewRegistry()
	registry.Register("WEBSITE_INFO", enrich.StaticFetcher(map[string]store.Record{
		"suspicious.com": {"title": "game portal"},
		"ok.com":         {"title": "daily news"},
		"lowclicks.com":  {"title": "game arcade"},
	}))
	return registry
}

func newTestExecutor(t *testing.T, source RowSource) *Executor {
	t.Helper()
	actor, err := actors.LoadActor("placement", actors.LevelAdGroup)
	require.NoError(t, err)
	return NewExecutor(source, websiteFetchers(), specification.DefaultRegistry(), actor)
}

func TestExecutorRun(t *testing.T) {
	executor := newTestExecutor(t, placementsSource(t))

	result, err := executor.Run(context.Background(), []string{"clicks > 10,WEBSITE_INFO:title regexp game"})
	require.NoError(t, err)

	placements, err := result.Excluded.Column("placement")
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"suspicious.com"}, placements)

	require.Len(t, result.Operations, 1)
	assert.Equal(t, "suspicious.com", result.Operations[0].Criterion.PlacementURL)
	assert.True(t, result.Operations[0].Criterion.Negative)

	// lowclicks.com fails the primary pre-filter; noinfo.com has no
	// enrichment record and is dropped before final evaluation.
	assert.Equal(t, 4, result.Stats.RowsFetched)
	assert.Equal(t, 3, result.Stats.RowsPrefiltered)
	assert.Equal(t, 2, result.Stats.RowsEnriched)
	assert.Equal(t, 1, result.Stats.RowsExcluded)
	assert.Equal(t, 1, result.Stats.Operations)

	assert.Equal(t, result.Stats, executor.GetStats())
}

func TestExecutorRunExpression(t *testing.T) {
	executor := newTestExecutor(t, placementsSource(t))

	result, err := executor.RunExpression(context.Background(), "clicks > 10 AND WEBSITE_INFO:title regexp game")
	require.NoError(t, err)

	placements, err := result.Excluded.Column("placement")
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"suspicious.com"}, placements)
}

func TestExecutorPrimaryOnlyRules(t *testing.T) {
	executor := newTestExecutor(t, placementsSource(t))

	result, err := executor.Run(context.Background(), []string{"clicks > 10"})
	require.NoError(t, err)

	placements, err := result.Excluded.Column("placement")
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"suspicious.com", "ok.com", "noinfo.com"}, placements)
	assert.Len(t, result.Operations, 3)
}

func TestExecutorNoRulesConfigured(t *testing.T) {
	executor := newTestExecutor(t, placementsSource(t))

	result, err := executor.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Excluded.Len())
	assert.Empty(t, result.Operations)
	assert.Equal(t, 4, result.Stats.RowsFetched)
}

func TestExecutorParseErrors(t *testing.T) {
	executor := newTestExecutor(t, placementsSource(t))

	_, err := executor.Run(context.Background(), []string{"clicks ? 0"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PARSE")
}

func TestExecutorUnknownEnrichmentSource(t *testing.T) {
	executor := newTestExecutor(t, placementsSource(t))

	// The specification registry knows YOUTUBE_VIDEO_INFO but no
	// fetcher is registered for it.
	_, err := executor.Run(context.Background(), []string{"YOUTUBE_VIDEO_INFO:viewCount > 1000"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH")
}

func TestExecutorSourceFailure(t *testing.T) {
	executor := newTestExecutor(t, &fakeSource{err: errors.New("quota exceeded")})

	_, err := executor.Run(context.Background(), []string{"clicks > 10"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH")
}

func TestExecutorEvaluationErrorPropagates(t *testing.T) {
	executor := newTestExecutor(t, placementsSource(t))

	_, err := executor.Run(context.Background(), []string{"fake_name > 0"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "EVALUATE")
}
