package project

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/dataset"
	"github.com/gridmap/gridmap/pkg/reconcile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	cat, err := catalog.New()
	require.NoError(t, err)

	store, err := Open(filepath.Join(t.TempDir(), "project.db"), cat)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStoreLoadEmpty(t *testing.T) {
	store := openTestStore(t)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len("bus"))
	assert.Empty(t, snap.Categories())
}

func TestStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	cat, err := catalog.New()
	require.NoError(t, err)
	bus, err := cat.Category("bus")
	require.NoError(t, err)

	snap := dataset.NewSnapshot()
	snap.SetCategory(bus, []dataset.Record{
		{Category: "bus", Fields: map[string]string{"Name": "BUS1", "NominalKV": "13.8", "Type": "Load"}},
		{Category: "bus", Fields: map[string]string{"Name": "BUS2", "NominalKV": "4.16", "Type": "Load"},
			Warnings: []string{"field Area: missing required value"}},
	})

	require.NoError(t, store.Save(ctx, snap, nil))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"bus"}, loaded.Categories())
	require.Len(t, loaded.Records("bus"), 2)
	assert.True(t, snap.Equal(loaded))

	rec, ok := loaded.Get("bus", dataset.Key("bus2"))
	require.True(t, ok)
	assert.Equal(t, "4.16", rec.Field("NominalKV"))
	assert.Equal(t, []string{"field Area: missing required value"}, rec.Warnings)
}

func TestStoreSaveReplacesPreviousState(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	cat, err := catalog.New()
	require.NoError(t, err)
	bus, err := cat.Category("bus")
	require.NoError(t, err)

	first := dataset.NewSnapshot()
	first.SetCategory(bus, []dataset.Record{
		{Category: "bus", Fields: map[string]string{"Name": "BUS1", "NominalKV": "13.8"}},
		{Category: "bus", Fields: map[string]string{"Name": "BUS2", "NominalKV": "4.16"}},
	})
	require.NoError(t, store.Save(ctx, first, nil))

	second := dataset.NewSnapshot()
	second.SetCategory(bus, []dataset.Record{
		{Category: "bus", Fields: map[string]string{"Name": "BUS1", "NominalKV": "13.2"}},
	})
	require.NoError(t, store.Save(ctx, second, nil))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len("bus"))
	rec, ok := loaded.Get("bus", dataset.Key("bus1"))
	require.True(t, ok)
	assert.Equal(t, "13.2", rec.Field("NominalKV"))
}

func TestStoreHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	cs := &reconcile.Changeset{
		Categories: []reconcile.CategoryChanges{
			{
				Category: "bus",
				Added:    []dataset.Key{"bus1", "bus2"},
				Modified: []reconcile.Modification{{Key: "bus3"}},
			},
			{Category: "load"}, // no changes, must not be recorded
		},
	}

	require.NoError(t, store.Save(ctx, dataset.NewSnapshot(), cs))

	commits, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "bus", commits[0].Category)
	assert.Equal(t, 2, commits[0].Added)
	assert.Equal(t, 1, commits[0].Modified)
	assert.Equal(t, 0, commits[0].Removed)
	assert.False(t, commits[0].CommittedAt.IsZero())
}
