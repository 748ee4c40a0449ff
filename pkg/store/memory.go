package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	orgs map[string]map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orgs: make(map[string]map[string]Record)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	} else if prev, ok := s.orgs[rec.OrgID][rec.ID]; ok {
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if s.orgs[rec.OrgID] == nil {
		s.orgs[rec.OrgID] = make(map[string]Record)
	}
	s.orgs[rec.OrgID][rec.ID] = copyRecord(rec)
	return rec, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, orgID, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.orgs[orgID][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return copyRecord(rec), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, orgID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]Record, 0, len(s.orgs[orgID]))
	for _, rec := range s.orgs[orgID] {
		recs = append(recs, copyRecord(rec))
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].UpdatedAt.Equal(recs[j].UpdatedAt) {
			return recs[i].UpdatedAt.After(recs[j].UpdatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
	return recs, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, orgID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[orgID][id]; !ok {
		return ErrNotFound
	}
	delete(s.orgs[orgID], id)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// copyRecord duplicates the raw config bytes so callers can't mutate
// stored state through the returned slice.
func copyRecord(rec Record) Record {
	if rec.Config != nil {
		cfg := make([]byte, len(rec.Config))
		copy(cfg, rec.Config)
		rec.Config = cfg
	}
	return rec
}

var _ Store = (*MemoryStore)(nil)
