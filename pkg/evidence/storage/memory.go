package storage

import (
	"context"
	"sort"
	"sync"

	"subagentic-hq/saturn/pkg/evidence"
)

// MemoryStorage implements the Storage interface using an in-memory map.
// This implementation is intended for testing only and should not be used
// in production.
type MemoryStorage struct {
	records map[string]*evidence.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*evidence.Record),
	}
}

// Store persists an evidence record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *evidence.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create a copy to avoid mutation
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// Query retrieves evidence records matching the query filters.
func (s *MemoryStorage) Query(ctx context.Context, query *evidence.Query) ([]*evidence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*evidence.Record{}

	for _, record := range s.records {
		if s.matchesQuery(record, query) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	// Sort by observed time; newest first when descending
	sort.Slice(results, func(i, j int) bool {
		if query.SortOrder == "desc" {
			return results[i].ObservedTime.After(results[j].ObservedTime)
		}
		return results[i].ObservedTime.Before(results[j].ObservedTime)
	})

	// Apply pagination
	start := query.Offset
	if start > len(results) {
		return []*evidence.Record{}, nil
	}

	end := start + query.Limit
	if end > len(results) {
		end = len(results)
	}

	if query.Limit > 0 {
		results = results[start:end]
	} else if start > 0 {
		results = results[start:]
	}

	return results, nil
}

// Count returns the number of evidence records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *evidence.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if s.matchesQuery(record, query) {
			count++
		}
	}

	return count, nil
}

// Delete removes evidence records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *evidence.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64

	toDelete := []string{}
	for id, record := range s.records {
		if s.matchesQuery(record, query) {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(s.records, id)
		deleted++
	}

	return deleted, nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*evidence.Record)
	return nil
}

// matchesQuery checks if a record matches the query filters.
func (s *MemoryStorage) matchesQuery(record *evidence.Record, query *evidence.Query) bool {
	// Time range filter
	if query.StartTime != nil && record.ObservedTime.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.ObservedTime.After(*query.EndTime) {
		return false
	}

	// Kind/scope filters
	if query.Kind != "" && record.Kind != query.Kind {
		return false
	}
	if query.WorkloadID != "" && record.WorkloadID != query.WorkloadID {
		return false
	}
	if query.SenderID != "" && record.SenderID != query.SenderID {
		return false
	}

	// Outcome filters
	if query.Reason != "" && record.Reason != query.Reason {
		return false
	}
	if query.Category != "" && record.Category != query.Category {
		return false
	}
	if query.Tier != "" && record.Tier != query.Tier {
		return false
	}
	if query.Admitted != nil && record.Admitted != *query.Admitted {
		return false
	}
	if query.Terminated != nil && record.Terminated != *query.Terminated {
		return false
	}

	return true
}

// Clear removes all records from storage (for testing).
func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*evidence.Record)
}

// GetByID retrieves a single evidence record by ID (for testing).
func (s *MemoryStorage) GetByID(id string) *evidence.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil
	}

	recordCopy := *record
	return &recordCopy
}

// Size returns the number of records in storage (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
