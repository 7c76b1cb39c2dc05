package store

import (
	"testing"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/nlgkit/internal/fixtures"
	"github.com/kittclouds/nlgkit/pkg/frame"
	"github.com/kittclouds/nlgkit/pkg/grammar"
	"github.com/kittclouds/nlgkit/pkg/narrative"
	"github.com/kittclouds/nlgkit/pkg/search"
)

// =============================================================================
// Store Factory for Testing All Implementations
// =============================================================================

type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

func fsStoreFactory() (Storer, error) {
	fs, err := mem.NewFS()
	if err != nil {
		return nil, err
	}
	return NewFSStore(fs, "nlg")
}

// runTestsForAllStores runs a test function against every store implementation.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
		"FSStore":     fsStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

func sampleRecord(name string) narrative.NarrativeRecord {
	return narrative.NarrativeRecord{
		Name:  name,
		Style: narrative.DefaultStyle(),
		Nuggets: []narrative.Record{{
			Text: "James Stewart is the actor with the highest rating.",
			Tokenmap: []narrative.VariableRecord{{
				Text:  "actor",
				Kind:  "token",
				Index: [2]int{4, 5},
				Idx:   21,
				Sources: []search.Result{
					{Location: search.LocCell, Type: search.TypeToken, Tmpl: `df["category"].iloc[-1]`, Enabled: true},
				},
				Inflections: []grammar.Inflection{grammar.Singularize},
			}},
			Args:     frame.Args{"_sort": {"-rating"}},
			Template: `James Stewart is the {{ G.singular(df["category"].iloc[-1]) }} with the highest rating.`,
		}},
	}
}

// =============================================================================
// Narratives
// =============================================================================

func TestNarrativeSaveAndGet(t *testing.T) {
	runTestsForAllStores(t, "SaveAndGet", func(t *testing.T, store Storer) {
		n := &Narrative{Record: sampleRecord("top actor"), DatasetID: "actors"}
		require.NoError(t, store.SaveNarrative(n, "created"))

		assert.NotEmpty(t, n.ID, "ID should be assigned")
		assert.Equal(t, 1, n.Version)
		assert.Equal(t, "top actor", n.Name)
		assert.Equal(t, n.ID, n.Record.ID)
		assert.NotZero(t, n.CreatedAt)

		got, err := store.GetNarrative(n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.Record, got.Record)
		assert.Equal(t, "actors", got.DatasetID)
		assert.Equal(t, "created", got.ChangeReason)
		assert.True(t, got.IsCurrent)
	})
}

func TestNarrativeVersions(t *testing.T) {
	runTestsForAllStores(t, "Versions", func(t *testing.T, store Storer) {
		n := &Narrative{ID: "n1", Record: sampleRecord("v1"), CreatedAt: 1000, UpdatedAt: 1000}
		require.NoError(t, store.SaveNarrative(n, "created"))

		next := &Narrative{ID: "n1", Record: sampleRecord("v2"), UpdatedAt: 2000}
		require.NoError(t, store.SaveNarrative(next, "renamed"))
		assert.Equal(t, 2, next.Version)
		assert.Equal(t, int64(1000), next.CreatedAt, "creation time is kept")

		current, err := store.GetNarrative("n1")
		require.NoError(t, err)
		assert.Equal(t, 2, current.Version)
		assert.Equal(t, "v2", current.Name)

		first, err := store.GetNarrativeVersion("n1", 1)
		require.NoError(t, err)
		assert.Equal(t, "v1", first.Name)
		assert.False(t, first.IsCurrent)

		versions, err := store.ListNarrativeVersions("n1")
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 2, versions[0].Version)
		assert.True(t, versions[0].IsCurrent)
		assert.Equal(t, 1, versions[1].Version)

		_, err = store.GetNarrativeVersion("n1", 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNarrativeListAndDelete(t *testing.T) {
	runTestsForAllStores(t, "ListAndDelete", func(t *testing.T, store Storer) {
		for _, name := range []string{"beta", "alpha"} {
			require.NoError(t, store.SaveNarrative(&Narrative{Record: sampleRecord(name)}, ""))
		}
		list, err := store.ListNarratives()
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "alpha", list[0].Name)
		assert.Equal(t, "beta", list[1].Name)

		require.NoError(t, store.DeleteNarrative(list[0].ID))
		_, err = store.GetNarrative(list[0].ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.DeleteNarrative(list[0].ID), ErrNotFound)

		list, err = store.ListNarratives()
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestNarrativeNotFound(t *testing.T) {
	runTestsForAllStores(t, "NotFound", func(t *testing.T, store Storer) {
		_, err := store.GetNarrative("missing")
		assert.ErrorIs(t, err, ErrNotFound)

		versions, err := store.ListNarrativeVersions("missing")
		require.NoError(t, err)
		assert.Empty(t, versions)
	})
}

// =============================================================================
// Datasets
// =============================================================================

func TestDatasets(t *testing.T) {
	runTestsForAllStores(t, "Datasets", func(t *testing.T, store Storer) {
		d := &Dataset{Name: "actors", CSV: fixtures.ActorsCSV()}
		require.NoError(t, store.SaveDataset(d))
		assert.NotEmpty(t, d.ID)

		got, err := store.GetDataset(d.ID)
		require.NoError(t, err)
		assert.Equal(t, *d, *got)

		df, err := got.Frame()
		require.NoError(t, err)
		assert.Equal(t, 9, df.Len())

		d.Name = "film stars"
		require.NoError(t, store.SaveDataset(d))
		require.NoError(t, store.SaveDataset(&Dataset{Name: "empty", CSV: "a,b\n"}))

		list, err := store.ListDatasets()
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "empty", list[0].Name)
		assert.Equal(t, "film stars", list[1].Name)

		require.NoError(t, store.DeleteDataset(d.ID))
		_, err = store.GetDataset(d.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.DeleteDataset(d.ID), ErrNotFound)
	})
}

func TestFSStoreRejectsPaths(t *testing.T) {
	store, err := fsStoreFactory()
	require.NoError(t, err)

	assert.Error(t, store.SaveNarrative(&Narrative{ID: "../x"}, ""))
	assert.Error(t, store.SaveDataset(&Dataset{ID: "a/b"}))
	_, err = store.GetDataset("..")
	assert.ErrorIs(t, err, ErrNotFound)
}
