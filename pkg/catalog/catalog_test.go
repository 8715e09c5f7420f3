package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/errors"
)

func TestEmbeddedCatalogLoads(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)

	cats := cat.Categories()
	require.NotEmpty(t, cats)

	// Sorted by name.
	for i := 1; i < len(cats); i++ {
		assert.Less(t, cats[i-1].Name, cats[i].Name)
	}

	// Every embedded category validates and has a natural key.
	for _, c := range cats {
		assert.NoError(t, c.Validate())
		assert.NotEmpty(t, c.KeyProperties(), "category %s", c.Name)
	}
}

func TestCategoryLookup(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)

	bus, err := cat.Category("bus")
	require.NoError(t, err)
	assert.Equal(t, "bus", bus.Name)

	// Case-insensitive.
	upper, err := cat.Category("BUS")
	require.NoError(t, err)
	assert.Equal(t, bus.Name, upper.Name)

	_, err = cat.Category("flux_capacitor")
	assert.True(t, errors.IsNotFound(err))
}

func TestScenarioQualifiedKey(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)

	lf, err := cat.Category("loadflow_result")
	require.NoError(t, err)

	keys := lf.KeyProperties()
	require.Len(t, keys, 2)
	assert.Equal(t, "Equipment", keys[0].Name)
	assert.Equal(t, "Scenario", keys[1].Name)
	assert.True(t, lf.IsKeyProperty("scenario"), "key check is case-insensitive")
}

func TestPropertyLookupAndAliases(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)

	bus, err := cat.Category("bus")
	require.NoError(t, err)

	name, err := bus.Property("name")
	require.NoError(t, err)
	assert.True(t, name.Required)
	assert.True(t, name.Key)
	assert.True(t, name.HasAlias("busname"))
	assert.True(t, name.HasAlias("Name"), "canonical name counts as alias")
	assert.False(t, name.HasAlias("voltage"))

	_, err = bus.Property("Frequency")
	assert.True(t, errors.IsNotFound(err))
}

func TestCategoryValidate(t *testing.T) {
	tests := []struct {
		name     string
		category catalog.Category
		wantErr  string
	}{
		{
			name:     "empty name",
			category: catalog.Category{Properties: []catalog.Property{{Name: "ID", Key: true}}},
			wantErr:  "category name",
		},
		{
			name:     "no properties",
			category: catalog.Category{Name: "bus"},
			wantErr:  "no properties",
		},
		{
			name: "duplicate property",
			category: catalog.Category{Name: "bus", Properties: []catalog.Property{
				{Name: "Name", Key: true},
				{Name: "name"},
			}},
			wantErr: "duplicate property",
		},
		{
			name: "no key component",
			category: catalog.Category{Name: "bus", Properties: []catalog.Property{
				{Name: "Name"},
			}},
			wantErr: "no key component",
		},
		{
			name: "empty alias",
			category: catalog.Category{Name: "bus", Properties: []catalog.Property{
				{Name: "Name", Key: true, Aliases: []string{" "}},
			}},
			wantErr: "alias",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestNewFromPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "categories.yaml")
		content := `categories:
- name: relay
  properties:
  - name: Name
    required: true
    key: true
    aliases: [RelayID]
  - name: Curve
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cat, err := catalog.NewFromPath(path)
		require.NoError(t, err)

		relay, err := cat.Category("relay")
		require.NoError(t, err)
		assert.Len(t, relay.Properties, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := catalog.NewFromPath(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: [::"), 0o644))

		_, err := catalog.NewFromPath(path)
		assert.Error(t, err)
	})

	t.Run("invalid category", func(t *testing.T) {
		path := filepath.Join(dir, "nokey.yaml")
		content := `categories:
- name: relay
  properties:
  - name: Name
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := catalog.NewFromPath(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no key component")
	})
}
