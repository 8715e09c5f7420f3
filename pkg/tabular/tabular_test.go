package tabular_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/mapping"
	"github.com/gridmap/gridmap/pkg/tabular"
)

func busCategory(t *testing.T) catalog.Category {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	bus, err := cat.Category("bus")
	require.NoError(t, err)
	return bus
}

func TestReadCSV(t *testing.T) {
	t.Run("basic table", func(t *testing.T) {
		src := "BUS_NAME,kV,BusType\nBUS1,13.8,Load\nBUS2,4.16,Swing\n"
		table, err := tabular.ReadCSV(strings.NewReader(src), "buses.csv")
		require.NoError(t, err)

		assert.Equal(t, []string{"BUS_NAME", "kV", "BusType"}, table.Columns)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "buses.csv", table.Name)
	})

	t.Run("ragged rows tolerated", func(t *testing.T) {
		src := "BUS_NAME,kV\nBUS1\nBUS2,4.16,extra\n"
		table, err := tabular.ReadCSV(strings.NewReader(src), "buses.csv")
		require.NoError(t, err)
		assert.Len(t, table.Rows, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := tabular.ReadCSV(strings.NewReader(""), "empty.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no header row")
	})

	t.Run("header whitespace trimmed", func(t *testing.T) {
		table, err := tabular.ReadCSV(strings.NewReader("BUS_NAME , kV\n"), "buses.csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"BUS_NAME", "kV"}, table.Columns)
	})
}

func TestColumnSet(t *testing.T) {
	table := &tabular.Table{Columns: []string{"BUS_NAME", "kV", "BUS_NAME"}}
	set := table.ColumnSet()
	assert.Equal(t, []string{"BUS_NAME", "kV"}, set.Headers())
}

func busMapping() *mapping.Configuration {
	cfg := mapping.New()
	cfg.Set("bus", "BUS_NAME", "Name")
	cfg.Set("bus", "kV", "NominalKV")
	return cfg
}

func TestImport(t *testing.T) {
	bus := busCategory(t)

	table := &tabular.Table{
		Name:    "buses.csv",
		Columns: []string{"BUS_NAME", "kV", "Notes"},
		Rows: [][]string{
			{"BUS1", "13.8", "main switchgear"},
			{"BUS2", "4.16", ""},
		},
	}

	records, err := tabular.Import(table, busMapping(), bus)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "bus", first.Category)
	assert.Equal(t, "BUS1", first.Field("Name"))
	assert.Equal(t, "13.8", first.Field("NominalKV"))
	assert.Empty(t, first.Warnings)

	// Unmapped columns are dropped; unmapped properties with defaults are
	// filled in.
	assert.NotContains(t, first.Fields, "Notes")
	assert.Equal(t, "Load", first.Field("Type"))
	assert.Equal(t, "true", first.Field("InService"))
}

func TestImportMissingRequiredValueWarns(t *testing.T) {
	bus := busCategory(t)

	table := &tabular.Table{
		Columns: []string{"BUS_NAME", "kV"},
		Rows: [][]string{
			{"BUS1"}, // short row: kV missing
		},
	}

	records, err := tabular.Import(table, busMapping(), bus)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.Len(t, records[0].Warnings, 1)
	assert.Contains(t, records[0].Warnings[0], "NominalKV")
	assert.Contains(t, records[0].Warnings[0], "missing required value")
}

func TestImportUnknownPropertyMapping(t *testing.T) {
	bus := busCategory(t)

	cfg := mapping.New()
	cfg.Set("bus", "Hz", "Frequency") // not in the bus catalog

	table := &tabular.Table{
		Columns: []string{"Hz"},
		Rows:    [][]string{{"60"}},
	}

	_, err := tabular.Import(table, cfg, bus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Frequency")
}

func TestImportRowOrderPreserved(t *testing.T) {
	bus := busCategory(t)

	table := &tabular.Table{
		Columns: []string{"BUS_NAME", "kV"},
		Rows: [][]string{
			{"BUS3", "0.48"},
			{"BUS1", "13.8"},
			{"BUS2", "4.16"},
		},
	}

	records, err := tabular.Import(table, busMapping(), bus)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "BUS3", records[0].Field("Name"))
	assert.Equal(t, "BUS1", records[1].Field("Name"))
	assert.Equal(t, "BUS2", records[2].Field("Name"))
}
