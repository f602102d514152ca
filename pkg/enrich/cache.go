// maestro/pkg/enrich/cache.go

package enrich

import (
	"context"

	"maestro/pkg/logging"
	"maestro/pkg/store"
)

// CachedFetcher wraps a fetcher with the record store: cached records
// are served from the store, misses go to the wrapped fetcher and are
// written back. Store keys are namespaced by source tag.
func CachedFetcher(sourceType string, st store.Store, fetch Fetcher) Fetcher {
	return func(ctx context.Context, ids []string, filters map[string]string) (map[string]store.Record, error) {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = sourceType + ":" + id
		}

		cached, err := st.MGetRecords(ctx, keys...)
		if err != nil {
			return nil, err
		}

		out := make(map[string]store.Record, len(ids))
		var missing []string
		for i, id := range ids {
			if record, ok := cached[keys[i]]; ok {
				out[id] = record
			} else {
				missing = append(missing, id)
			}
		}
		logging.Logger.Debug().
			Str("source_type", sourceType).
			Int("requested", len(ids)).
			Int("cache_hits", len(out)).
			Msg("Enrichment cache lookup")

		if len(missing) == 0 {
			return out, nil
		}

		fetched, err := fetch(ctx, missing, filters)
		if err != nil {
			return nil, err
		}
		for id, record := range fetched {
			out[id] = record
			if err := st.SetRecord(ctx, sourceType+":"+id, record); err != nil {
				// A write-back failure only costs a re-fetch next run.
				logging.Logger.Warn().Err(err).Str("id", id).Msg("Failed to cache enrichment record")
			}
		}
		return out, nil
	}
}
