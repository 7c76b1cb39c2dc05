package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hack-pad/hackpadfs"
)

// FSStore keeps narratives and datasets as JSON files on a hackpadfs
// filesystem (memory, OS or IndexedDB):
//
//	<root>/narratives/<id>/<version>.json
//	<root>/datasets/<id>.json
type FSStore struct {
	mu   sync.RWMutex
	fs   hackpadfs.FS
	root string
}

var _ Storer = (*FSStore)(nil)

// NewFSStore creates the store layout under root.
func NewFSStore(fs hackpadfs.FS, root string) (*FSStore, error) {
	s := &FSStore{fs: fs, root: root}
	for _, dir := range []string{s.narrativesDir(), s.datasetsDir()} {
		if err := hackpadfs.MkdirAll(fs, dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return s, nil
}

// Close is a no-op; the filesystem belongs to the caller.
func (s *FSStore) Close() error {
	return nil
}

func (s *FSStore) narrativesDir() string { return path.Join(s.root, "narratives") }
func (s *FSStore) datasetsDir() string   { return path.Join(s.root, "datasets") }

func (s *FSStore) narrativeDir(id string) string {
	return path.Join(s.narrativesDir(), id)
}

func (s *FSStore) versionFile(id string, version int) string {
	return path.Join(s.narrativeDir(id), strconv.Itoa(version)+".json")
}

func (s *FSStore) datasetFile(id string) string {
	return path.Join(s.datasetsDir(), id+".json")
}

func (s *FSStore) writeJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return hackpadfs.WriteFullFile(s.fs, name, data, 0o644)
}

func (s *FSStore) readJSON(name string, v any) error {
	data, err := hackpadfs.ReadFile(s.fs, name)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// validID rejects IDs that would escape their directory.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// =============================================================================
// Narratives
// =============================================================================

// versions lists the stored versions of id in ascending order.
func (s *FSStore) versions(id string) ([]int, error) {
	if !validID(id) {
		return nil, nil
	}
	entries, err := hackpadfs.ReadDir(s.fs, s.narrativeDir(id))
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []int
	for _, e := range entries {
		v, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ".json"))
		if err == nil && !e.IsDir() {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (s *FSStore) readVersion(id string, version, current int) (*Narrative, error) {
	var n Narrative
	if err := s.readJSON(s.versionFile(id, version), &n); err != nil {
		return nil, err
	}
	n.IsCurrent = version == current
	return &n, nil
}

// SaveNarrative writes n as the next version of its narrative.
func (s *FSStore) SaveNarrative(n *Narrative, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID != "" && !validID(n.ID) {
		return fmt.Errorf("store: invalid narrative id %q", n.ID)
	}
	vs, err := s.versions(n.ID)
	if err != nil {
		return err
	}
	var prev *Narrative
	if len(vs) > 0 {
		last := vs[len(vs)-1]
		if prev, err = s.readVersion(n.ID, last, last); err != nil {
			return err
		}
	}
	stamp(n, prev, reason)

	if err := hackpadfs.MkdirAll(s.fs, s.narrativeDir(n.ID), 0o755); err != nil {
		return err
	}
	return s.writeJSON(s.versionFile(n.ID, n.Version), n)
}

// GetNarrative reads the current version of a narrative.
func (s *FSStore) GetNarrative(id string) (*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs, err := s.versions(id)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, fmt.Errorf("%w: narrative %s", ErrNotFound, id)
	}
	last := vs[len(vs)-1]
	return s.readVersion(id, last, last)
}

// GetNarrativeVersion reads a specific version of a narrative.
func (s *FSStore) GetNarrativeVersion(id string, version int) (*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs, err := s.versions(id)
	if err != nil {
		return nil, err
	}
	for _, v := range vs {
		if v == version {
			return s.readVersion(id, v, vs[len(vs)-1])
		}
	}
	return nil, fmt.Errorf("%w: narrative %s version %d", ErrNotFound, id, version)
}

// ListNarrativeVersions reads every version of a narrative, newest first.
func (s *FSStore) ListNarrativeVersions(id string) ([]*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs, err := s.versions(id)
	if err != nil {
		return nil, err
	}
	out := make([]*Narrative, 0, len(vs))
	for i := len(vs) - 1; i >= 0; i-- {
		n, err := s.readVersion(id, vs[i], vs[len(vs)-1])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// ListNarratives reads the current version of every narrative.
func (s *FSStore) ListNarratives() ([]*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := hackpadfs.ReadDir(s.fs, s.narrativesDir())
	if err != nil {
		return nil, err
	}
	var out []*Narrative
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		vs, err := s.versions(e.Name())
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			continue
		}
		last := vs[len(vs)-1]
		n, err := s.readVersion(e.Name(), last, last)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	sortNarratives(out)
	return out, nil
}

// DeleteNarrative removes every version of a narrative.
func (s *FSStore) DeleteNarrative(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vs, err := s.versions(id)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		return fmt.Errorf("%w: narrative %s", ErrNotFound, id)
	}
	for _, v := range vs {
		if err := hackpadfs.Remove(s.fs, s.versionFile(id, v)); err != nil {
			return err
		}
	}
	return hackpadfs.Remove(s.fs, s.narrativeDir(id))
}

// =============================================================================
// Datasets
// =============================================================================

// SaveDataset writes a dataset, replacing any with the same ID.
func (s *FSStore) SaveDataset(d *Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID != "" && !validID(d.ID) {
		return fmt.Errorf("store: invalid dataset id %q", d.ID)
	}
	stampDataset(d)
	return s.writeJSON(s.datasetFile(d.ID), d)
}

// GetDataset reads a dataset by ID.
func (s *FSStore) GetDataset(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !validID(id) {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	var d Dataset
	err := s.readJSON(s.datasetFile(id), &d)
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDatasets reads every dataset.
func (s *FSStore) ListDatasets() ([]*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := hackpadfs.ReadDir(s.fs, s.datasetsDir())
	if err != nil {
		return nil, err
	}
	var out []*Dataset
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var d Dataset
		if err := s.readJSON(path.Join(s.datasetsDir(), e.Name()), &d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	sortDatasets(out)
	return out, nil
}

// DeleteDataset removes a dataset.
func (s *FSStore) DeleteDataset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validID(id) {
		return fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	err := hackpadfs.Remove(s.fs, s.datasetFile(id))
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	return err
}
