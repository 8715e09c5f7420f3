package cmd

import (
	"fmt"
	"os"

	"github.com/gridmap/gridmap/internal/cmd/output"
	"github.com/gridmap/gridmap/internal/project"
	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/dataset"
	"github.com/gridmap/gridmap/pkg/errors"
	"github.com/gridmap/gridmap/pkg/mapping"
	"github.com/gridmap/gridmap/pkg/tabular"
)

// openCatalog loads the embedded equipment catalog, or one from
// GRIDMAP_CATALOG when set.
func openCatalog() (catalog.Reader, error) {
	if path := os.Getenv("GRIDMAP_CATALOG"); path != "" {
		return catalog.NewFromPath(path)
	}
	return catalog.New()
}

// openStore opens the project database for the current --project path.
func openStore(cat catalog.Reader) (*project.Store, error) {
	store, err := project.Open(projectPath, cat)
	if err != nil {
		return nil, fmt.Errorf("opening project %s: %w", projectPath, err)
	}
	return store, nil
}

// loadMappings reads the saved mapping configuration; a missing file yields
// an empty configuration.
func loadMappings() (*mapping.Configuration, error) {
	cfg, err := mapping.Load(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("loading mappings %s: %w", mappingPath, err)
	}
	return cfg, nil
}

// readTable reads a CSV source file.
func readTable(path string) (*tabular.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	return tabular.ReadCSV(f, path)
}

// formatter returns the formatter for the resolved output format.
func formatter() output.Formatter {
	return output.NewFormatter(output.Format(outputFormat))
}

// importSnapshot imports a source table into a single-category snapshot
// using the saved mapping configuration.
func importSnapshot(table *tabular.Table, cfg *mapping.Configuration, cat catalog.Category) (*dataset.Snapshot, error) {
	records, err := tabular.Import(table, cfg, cat)
	if err != nil {
		return nil, err
	}

	snap := dataset.NewSnapshot()
	snap.SetCategory(cat, records)
	return snap, nil
}

// scopeToIncoming restricts the current snapshot to the categories present
// in the incoming one, so a single-file import is compared only against its
// own category instead of the whole project.
func scopeToIncoming(reader catalog.Reader, current, incoming *dataset.Snapshot) (*dataset.Snapshot, error) {
	scoped := dataset.NewSnapshot()
	for _, name := range incoming.Categories() {
		cat, err := reader.Category(name)
		if err != nil {
			return nil, err
		}

		var records []dataset.Record
		for _, key := range current.Keys(name) {
			record, _ := current.Get(name, key)
			records = append(records, record)
		}
		scoped.SetCategory(cat, records)
	}
	return scoped, nil
}
