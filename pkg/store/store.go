// maestro/pkg/store/store.go

// Package store caches enrichment records between runs so repeated
// invocations do not re-fetch metadata for placements already seen.
package store

import (
	"context"
	"sync"
)

// Record is one enrichment lookup result keyed by field name.
type Record = map[string]interface{}

type Store interface {
	SetRecord(ctx context.Context, key string, record Record) error
	GetRecord(ctx context.Context, key string) (Record, error)
	MGetRecords(ctx context.Context, keys ...string) (map[string]Record, error)
}

// MemoryStore is an in-process Store used when no Redis is configured
// and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) SetRecord(_ context.Context, key string, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	return nil
}

func (s *MemoryStore) GetRecord(_ context.Context, key string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[key], nil
}

func (s *MemoryStore) MGetRecords(_ context.Context, keys ...string) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make(map[string]Record)
	for _, key := range keys {
		if record, ok := s.records[key]; ok {
			records[key] = record
		}
	}
	return records, nil
}
