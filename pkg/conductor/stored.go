package conductor

import (
	"fmt"
	"strings"
	"time"

	"github.com/kittclouds/nlgkit/internal/store"
	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/narrative"
)

// SaveDataset stores df under name and returns its ID.
func (c *Conductor) SaveDataset(name string, df *frame.Frame) (string, error) {
	csv, err := frameCSV(df)
	if err != nil {
		return "", err
	}
	d := &store.Dataset{Name: name, CSV: csv}
	err = c.observe("save_dataset", name, func() error { return c.store.SaveDataset(d) })
	return d.ID, err
}

// SaveNarrative stores nr as a new version, linked to a stored dataset
// when datasetID is set. The narrative takes the stored ID.
func (c *Conductor) SaveNarrative(nr *narrative.Narrative, datasetID, reason string) (*store.Narrative, error) {
	sn := &store.Narrative{ID: nr.ID, Name: nr.Name, DatasetID: datasetID, Record: nr.Record()}
	if err := c.observe("save_narrative", nr.ID, func() error { return c.store.SaveNarrative(sn, reason) }); err != nil {
		return nil, err
	}
	nr.ID = sn.ID
	return sn, nil
}

// LoadNarrative restores the current version of a stored narrative.
func (c *Conductor) LoadNarrative(id string) (*narrative.Narrative, *store.Narrative, error) {
	var sn *store.Narrative
	err := c.observe("get_narrative", id, func() (err error) {
		sn, err = c.store.GetNarrative(id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	nr, err := narrative.NarrativeFromRecord(sn.Record, c.env)
	if err != nil {
		return nil, nil, fmt.Errorf("restore narrative %s: %w", id, err)
	}
	nr.ID = sn.ID
	return nr, sn, nil
}

// RenderStored renders a stored narrative against df. Without df the
// narrative's stored dataset is used.
func (c *Conductor) RenderStored(id string, df *frame.Frame, sep string) (string, error) {
	nr, sn, err := c.LoadNarrative(id)
	if err != nil {
		return "", err
	}
	if df == nil {
		if sn.DatasetID == "" {
			return "", fmt.Errorf("%w: narrative %s", ErrNoData, id)
		}
		d, err := c.store.GetDataset(sn.DatasetID)
		if err != nil {
			return "", err
		}
		if df, err = d.Frame(); err != nil {
			return "", err
		}
	}
	return c.RenderNarrative(nr, df, sep)
}

func (c *Conductor) observe(op, id string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.metrics.RecordStoreOp(op, err)
	c.log.LogStoreOperation(op, id, time.Since(start), err)
	return err
}

func frameCSV(df *frame.Frame) (string, error) {
	var b strings.Builder
	if err := df.WriteCSV(&b); err != nil {
		return "", fmt.Errorf("encode dataset: %w", err)
	}
	return b.String(), nil
}
