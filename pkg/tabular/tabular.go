// Package tabular supplies column/value data extracted from source tables
// and the import step that turns rows into keyed equipment records by
// applying a mapping configuration.
//
// The CSV reader covers exports from power-system modeling tools; richer
// spreadsheet formats are expected to be flattened to CSV (or an equivalent
// Table) upstream.
package tabular

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gridmap/gridmap/pkg/automapper"
	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/dataset"
	"github.com/gridmap/gridmap/pkg/errors"
	"github.com/gridmap/gridmap/pkg/mapping"
	"github.com/gridmap/gridmap/pkg/similarity"
)

// Table is one source table: ordered column headers plus data rows.
type Table struct {
	Name    string // source identifier, e.g. the file name
	Columns []string
	Rows    [][]string
}

// ReadCSV parses a CSV document into a Table. The first row is the header.
// Rows may be ragged; missing trailing cells read as empty values.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged exports
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", name, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParseError("csv", name, "no header row", nil)
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		columns[i] = strings.TrimSpace(h)
	}

	return &Table{Name: name, Columns: columns, Rows: rows[1:]}, nil
}

// ColumnSet returns the table's headers as an ordered ColumnSet for the
// auto-mapper.
func (t *Table) ColumnSet() automapper.ColumnSet {
	return automapper.NewColumnSet(t.Columns)
}

// cell returns the value at a column index, tolerating short rows.
func (t *Table) cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// Import applies a mapping configuration to the table and produces records
// for one category, in source row order.
//
// Unmapped properties receive their catalog default. A missing required
// value becomes a warning attached to the record rather than aborting the
// rest of the import; such records still diff and commit normally. An entry
// mapping to a property unknown to the category is a schema error.
func Import(t *Table, cfg *mapping.Configuration, cat catalog.Category) ([]dataset.Record, error) {
	associations := cfg.ForCategory(cat.Name)

	// Resolve column index per mapped property.
	indexByProperty := make(map[string]int, len(associations))
	for i, column := range t.Columns {
		property, ok := associations[similarity.Normalize(column)]
		if !ok {
			continue
		}
		p, err := cat.Property(property)
		if err != nil {
			return nil, errors.NewSchemaError(cat.Name, property, "mapping refers to unknown property")
		}
		indexByProperty[p.Name] = i
	}

	records := make([]dataset.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := dataset.Record{
			Category: cat.Name,
			Fields:   make(map[string]string, len(cat.Properties)),
		}

		for _, p := range cat.Properties {
			value := ""
			if index, mapped := indexByProperty[p.Name]; mapped {
				value = t.cell(row, index)
			}
			if value == "" && p.Default != "" {
				value = p.Default
			}
			if value == "" && p.Required {
				record.Warn("field %s: missing required value", p.Name)
			}
			if value != "" {
				record.Fields[p.Name] = value
			}
		}

		records = append(records, record)
	}

	return records, nil
}
