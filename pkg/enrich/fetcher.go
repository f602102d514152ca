// maestro/pkg/enrich/fetcher.go

// Package enrich joins secondary metadata (website, YouTube video and
// channel lookups) onto primary report rows before the full exclusion
// specification is evaluated.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"maestro/pkg/store"
)

// Fetcher retrieves enrichment records for a set of row identifiers.
// The filters constrain which rows are worth fetching (e.g. only
// placements of a given type); implementations may ignore them.
type Fetcher func(ctx context.Context, ids []string, filters map[string]string) (map[string]store.Record, error)

// Registry maps an enrichment source tag to the fetcher responsible
// for it. Fetchers are registered at startup; there is no dynamic
// discovery.
type Registry struct {
	fetchers map[string]Fetcher
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

func (r *Registry) Register(sourceType string, fetcher Fetcher) {
	if _, ok := r.fetchers[sourceType]; !ok {
		r.order = append(r.order, sourceType)
	}
	r.fetchers[sourceType] = fetcher
}

// Lookup returns the fetcher for a source tag, failing with the list
// of available tags when none is registered.
func (r *Registry) Lookup(sourceType string) (Fetcher, error) {
	fetcher, ok := r.fetchers[sourceType]
	if !ok {
		return nil, fmt.Errorf(
			"unsupported enrichment source %q, select one of available: %s",
			sourceType, strings.Join(r.SourceTypes(), ", "))
	}
	return fetcher, nil
}

// SourceTypes lists registered tags in registration order.
func (r *Registry) SourceTypes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// StaticFetcher serves a fixed record table, typically loaded from the
// record store seeded ahead of a run.
func StaticFetcher(records map[string]store.Record) Fetcher {
	return func(_ context.Context, ids []string, _ map[string]string) (map[string]store.Record, error) {
		out := make(map[string]store.Record)
		for _, id := range ids {
			if record, ok := records[id]; ok {
				out[id] = record
			}
		}
		return out, nil
	}
}
