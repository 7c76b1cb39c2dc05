// Package store persists narratives and the datasets they were written
// against. Narratives are versioned: saving an existing narrative closes
// its current version and adds the next one.
package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/narrative"
)

// ErrNotFound is returned when no narrative, version or dataset has the
// requested ID.
var ErrNotFound = errors.New("store: not found")

// Narrative is one stored version of a narrative.
type Narrative struct {
	ID           string                    `json:"id"`
	Version      int                       `json:"version"`
	Name         string                    `json:"name"`
	DatasetID    string                    `json:"datasetId,omitempty"`
	Record       narrative.NarrativeRecord `json:"record"`
	CreatedAt    int64                     `json:"createdAt"`
	UpdatedAt    int64                     `json:"updatedAt"`
	IsCurrent    bool                      `json:"isCurrent"`
	ChangeReason string                    `json:"changeReason,omitempty"`
}

// Dataset is a stored table in CSV form.
type Dataset struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CSV       string `json:"csv"`
	CreatedAt int64  `json:"createdAt"`
}

// Frame parses the dataset.
func (d *Dataset) Frame() (*frame.Frame, error) {
	return frame.ReadCSVString(d.CSV)
}

// Storer defines the interface for narrative persistence.
// MemStore, SQLiteStore and FSStore implement it.
type Storer interface {
	// Narratives
	SaveNarrative(n *Narrative, reason string) error
	GetNarrative(id string) (*Narrative, error)
	GetNarrativeVersion(id string, version int) (*Narrative, error)
	ListNarrativeVersions(id string) ([]*Narrative, error)
	ListNarratives() ([]*Narrative, error)
	DeleteNarrative(id string) error

	// Datasets
	SaveDataset(d *Dataset) error
	GetDataset(id string) (*Dataset, error)
	ListDatasets() ([]*Dataset, error)
	DeleteDataset(id string) error

	// Lifecycle
	Close() error
}

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// stamp fills the fields every store sets on save. prev is the current
// version, or nil for a new narrative.
func stamp(n *Narrative, prev *Narrative, reason string) {
	if n.ID == "" {
		n.ID = NewID()
	}
	if n.UpdatedAt == 0 {
		n.UpdatedAt = nowMillis()
	}
	n.Version = 1
	if n.CreatedAt == 0 {
		n.CreatedAt = n.UpdatedAt
	}
	if prev != nil {
		n.Version = prev.Version + 1
		n.CreatedAt = prev.CreatedAt
	}
	if n.Record.ID == "" {
		n.Record.ID = n.ID
	}
	if n.Name == "" {
		n.Name = n.Record.Name
	}
	n.IsCurrent = true
	n.ChangeReason = reason
}

func stampDataset(d *Dataset) {
	if d.ID == "" {
		d.ID = NewID()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = nowMillis()
	}
}

// cloneNarrative deep-copies n through its JSON form, the same form the
// other stores persist.
func cloneNarrative(n *Narrative) (*Narrative, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	var out Narrative
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
