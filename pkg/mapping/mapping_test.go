package mapping_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridmap/gridmap/pkg/automapper"
	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/mapping"
)

func TestSetLookupRemove(t *testing.T) {
	cfg := mapping.New()
	cfg.Set("bus", "BUS_NAME", "Name")
	cfg.Set("bus", "kV", "NominalKV")

	property, ok := cfg.Lookup("bus", "BUS_NAME")
	require.True(t, ok)
	assert.Equal(t, "Name", property)

	// Lookup matches by normalized header.
	property, ok = cfg.Lookup("bus", "BusName")
	require.True(t, ok)
	assert.Equal(t, "Name", property)

	// Upsert replaces an existing entry rather than duplicating it.
	cfg.Set("bus", "BusName", "Area")
	assert.Equal(t, 2, cfg.Len())
	property, _ = cfg.Lookup("bus", "BUS_NAME")
	assert.Equal(t, "Area", property)

	cfg.Remove("bus", "bus_name")
	_, ok = cfg.Lookup("bus", "BUS_NAME")
	assert.False(t, ok)
	assert.Equal(t, 1, cfg.Len())
}

func TestUsedElsewhere(t *testing.T) {
	cfg := mapping.New()
	cfg.Set("bus", "Name", "Name")
	cfg.Set("load", "Name", "Name")
	cfg.Set("motor", "Name", "Name")
	cfg.Set("cable", "Length", "Length")

	others := cfg.UsedElsewhere("name", "bus")
	assert.Equal(t, []string{"load", "motor"}, others)

	assert.Empty(t, cfg.UsedElsewhere("Length", "cable"))
	assert.Empty(t, cfg.UsedElsewhere("Unmapped", "bus"))
}

func TestEntriesSorted(t *testing.T) {
	cfg := mapping.New()
	cfg.Set("load", "Name", "Name")
	cfg.Set("bus", "kV", "NominalKV")
	cfg.Set("bus", "BUS_NAME", "Name")

	entries := cfg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "bus", entries[0].Category)
	assert.Equal(t, "BUS_NAME", entries[0].Column)
	assert.Equal(t, "bus", entries[1].Category)
	assert.Equal(t, "load", entries[2].Category)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")

	cfg := mapping.New()
	cfg.Set("bus", "BUS_NAME", "Name")
	cfg.Set("cable", "From", "FromBus")
	require.NoError(t, cfg.Save(path))

	loaded, err := mapping.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Entries(), loaded.Entries())
}

func TestLoadMissingFileYieldsEmptyConfig(t *testing.T) {
	cfg, err := mapping.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Len())
}

func TestApplyProposal(t *testing.T) {
	cat := catalog.Category{
		Name: "bus",
		Properties: []catalog.Property{
			{Name: "Name", Required: true, Key: true, Aliases: []string{"BusName"}},
			{Name: "NominalKV", Aliases: []string{"kV"}},
		},
	}
	proposal := automapper.Propose(automapper.NewColumnSet([]string{"BUS_NAME", "kV"}), cat)
	require.NotEmpty(t, proposal.Assignments())

	t.Run("confirmed only", func(t *testing.T) {
		cfg := mapping.New()
		applied := cfg.Apply(proposal, false)
		assert.Equal(t, 2, applied)

		property, ok := cfg.Lookup("bus", "BUS_NAME")
		require.True(t, ok)
		assert.Equal(t, "Name", property)
	})

	t.Run("proposal is not mutated by apply", func(t *testing.T) {
		before := proposal.String()
		cfg := mapping.New()
		cfg.Apply(proposal, true)
		assert.Equal(t, before, proposal.String())
	})
}
