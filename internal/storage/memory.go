package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryStore keeps encoded payloads so callers never share record slices
// with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string][]byte
	summaries   map[string]RunSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.runs = make(map[string][]byte)
	s.summaries = make(map[string]RunSummary)
	s.initialized = true
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.runs[run.ID] = payload
	s.summaries[run.ID] = run.Summary()
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	payload, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return Run{}, false, nil
	}
	run, err := DecodeRun(payload)
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RunSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
