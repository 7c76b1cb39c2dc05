package store

import (
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu         sync.RWMutex
	narratives map[string][]*Narrative // versions, oldest first
	datasets   map[string]*Dataset
}

var _ Storer = (*MemStore)(nil)

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		narratives: make(map[string][]*Narrative),
		datasets:   make(map[string]*Dataset),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// =============================================================================
// Narratives
// =============================================================================

func (s *MemStore) SaveNarrative(n *Narrative, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Narrative
	if vs := s.narratives[n.ID]; len(vs) > 0 {
		prev = vs[len(vs)-1]
	}
	stamp(n, prev, reason)
	c, err := cloneNarrative(n)
	if err != nil {
		return err
	}
	if prev != nil {
		prev.IsCurrent = false
	}
	s.narratives[n.ID] = append(s.narratives[n.ID], c)
	return nil
}

func (s *MemStore) GetNarrative(id string) (*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := s.narratives[id]
	if len(vs) == 0 {
		return nil, fmt.Errorf("%w: narrative %s", ErrNotFound, id)
	}
	return cloneNarrative(vs[len(vs)-1])
}

func (s *MemStore) GetNarrativeVersion(id string, version int) (*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.narratives[id] {
		if n.Version == version {
			return cloneNarrative(n)
		}
	}
	return nil, fmt.Errorf("%w: narrative %s version %d", ErrNotFound, id, version)
}

func (s *MemStore) ListNarrativeVersions(id string) ([]*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := s.narratives[id]
	out := make([]*Narrative, 0, len(vs))
	for i := len(vs) - 1; i >= 0; i-- {
		c, err := cloneNarrative(vs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MemStore) ListNarratives() ([]*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Narrative, 0, len(s.narratives))
	for _, vs := range s.narratives {
		c, err := cloneNarrative(vs[len(vs)-1])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sortNarratives(out)
	return out, nil
}

func (s *MemStore) DeleteNarrative(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.narratives[id]; !ok {
		return fmt.Errorf("%w: narrative %s", ErrNotFound, id)
	}
	delete(s.narratives, id)
	return nil
}

// =============================================================================
// Datasets
// =============================================================================

func (s *MemStore) SaveDataset(d *Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stampDataset(d)
	c := *d
	s.datasets[d.ID] = &c
	return nil
}

func (s *MemStore) GetDataset(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	c := *d
	return &c, nil
}

func (s *MemStore) ListDatasets() ([]*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		c := *d
		out = append(out, &c)
	}
	sortDatasets(out)
	return out, nil
}

func (s *MemStore) DeleteDataset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	delete(s.datasets, id)
	return nil
}

// sortNarratives orders by name, then ID.
func sortNarratives(ns []*Narrative) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Name != ns[j].Name {
			return ns[i].Name < ns[j].Name
		}
		return ns[i].ID < ns[j].ID
	})
}

func sortDatasets(ds []*Dataset) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].Name != ds[j].Name {
			return ds[i].Name < ds[j].Name
		}
		return ds[i].ID < ds[j].ID
	})
}
