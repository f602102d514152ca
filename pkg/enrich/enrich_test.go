// maestro/pkg/enrich/enrich_test.go

package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maestro/pkg/report"
	"maestro/pkg/store"
)

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	registry.Register("YOUTUBE_VIDEO_INFO", StaticFetcher(nil))
	registry.Register("WEBSITE_INFO", StaticFetcher(nil))

	fetcher, err := registry.Lookup("WEBSITE_INFO")
	assert.NoError(t, err)
	assert.NotNil(t, fetcher)

	_, err = registry.Lookup("UNKNOWN_INFO")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported enrichment source")
	assert.Contains(t, err.Error(), "YOUTUBE_VIDEO_INFO, WEBSITE_INFO")
}

func TestStaticFetcher(t *testing.T) {
	fetcher := StaticFetcher(map[string]store.Record{
		"video1": {"title": "gameplay"},
		"video2": {"title": "review"},
	})

	records, err := fetcher(context.Background(), []string{"video1", "video3"}, nil)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "gameplay", records["video1"]["title"])
}

func TestCachedFetcherServesHitsAndCachesMisses(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.SetRecord(ctx, "WEBSITE_INFO:cached.com", store.Record{"title": "cached"}))

	var fetchedIDs []string
	fetcher := CachedFetcher("WEBSITE_INFO", st, func(_ context.Context, ids []string, _ map[string]string) (map[string]store.Record, error) {
		fetchedIDs = ids
		return map[string]store.Record{"fresh.com": {"title": "fresh"}}, nil
	})

	records, err := fetcher(ctx, []string{"cached.com", "fresh.com"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"fresh.com"}, fetchedIDs)
	assert.Equal(t, "cached", records["cached.com"]["title"])
	assert.Equal(t, "fresh", records["fresh.com"]["title"])

	// The miss is now cached.
	cached, err := st.GetRecord(ctx, "WEBSITE_INFO:fresh.com")
	assert.NoError(t, err)
	assert.Equal(t, "fresh", cached["title"])
}

func TestCachedFetcherSkipsFetchWhenAllCached(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.SetRecord(ctx, "WEBSITE_INFO:a.com", store.Record{"title": "a"}))

	fetcher := CachedFetcher("WEBSITE_INFO", st, func(context.Context, []string, map[string]string) (map[string]store.Record, error) {
		return nil, errors.New("must not be called")
	})

	records, err := fetcher(ctx, []string{"a.com"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "a", records["a.com"]["title"])
}

func TestJoin(t *testing.T) {
	base, err := report.New(
		[]string{"placement", "clicks"},
		[][]interface{}{
			{"matched.com", 10},
			{"unmatched.com", 5},
		},
	)
	require.NoError(t, err)

	joined, err := Join(base, "placement", []string{"title", "viewCount"}, map[string]store.Record{
		"matched.com": {"title": "matched site", "viewCount": 100},
	})
	assert.NoError(t, err)

	assert.Equal(t, []string{"placement", "clicks", "title", "viewCount"}, joined.Columns())
	// The row without an enrichment record is dropped.
	assert.Equal(t, 1, joined.Len())

	row := joined.Row(0)
	title, err := row.Get("title")
	assert.NoError(t, err)
	assert.Equal(t, "matched site", title)
	clicks, err := row.Get("clicks")
	assert.NoError(t, err)
	assert.Equal(t, 10, clicks)
}

func TestJoinUnknownIDColumn(t *testing.T) {
	base, err := report.New([]string{"placement"}, [][]interface{}{{"a.com"}})
	require.NoError(t, err)

	_, err = Join(base, "missing_id", nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "field not found")
}
