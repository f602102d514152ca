// maestro/pkg/specification/registry.go

package specification

import (
	"fmt"
	"sort"
	"strings"

	"maestro/pkg/rules"
)

// EntryFactory builds the entry variant responsible for one source
// type's field names.
type EntryFactory func(expression string) (Entry, error)

// Registry maps a source type tag to the entry factory registered for
// it. Adding a new source type means registering a new factory, not
// subclassing anything.
type Registry struct {
	factories map[string]EntryFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EntryFactory)}
}

func (r *Registry) Register(sourceType string, factory EntryFactory) {
	r.factories[sourceType] = factory
}

// Create builds an entry for the given source type, failing with the
// list of registered tags when the type is unknown.
func (r *Registry) Create(sourceType, expression string) (Entry, error) {
	factory, ok := r.factories[sourceType]
	if !ok {
		return nil, fmt.Errorf(
			"unsupported source type %q, select one of available: %s",
			sourceType, strings.Join(r.SourceTypes(), ", "))
	}
	return factory(expression)
}

// SourceTypes lists the registered tags in sorted order.
func (r *Registry) SourceTypes() []string {
	types := make([]string, 0, len(r.factories))
	for sourceType := range r.factories {
		types = append(types, sourceType)
	}
	sort.Strings(types)
	return types
}

// DefaultRegistry covers the primary ads report plus the built-in
// enrichment sources.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(rules.DefaultSourceType, func(expression string) (Entry, error) {
		return NewAdsEntry(expression)
	})
	for _, sourceType := range []string{"WEBSITE_INFO", "YOUTUBE_VIDEO_INFO", "YOUTUBE_CHANNEL_INFO"} {
		sourceType := sourceType
		registry.Register(sourceType, func(expression string) (Entry, error) {
			return NewEnrichmentEntry(sourceType, expression)
		})
	}
	return registry
}
