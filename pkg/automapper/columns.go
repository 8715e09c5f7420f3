package automapper

import (
	"github.com/gridmap/gridmap/pkg/similarity"
)

// Column is one source-table column header together with its normalized
// form. Columns are ephemeral: they are recomputed per import session from
// whatever the tabular extractor supplies.
type Column struct {
	Header     string // raw text as it appears in the source
	Normalized string // lower-cased, punctuation stripped, boundary split
}

// ColumnSet is the ordered list of distinct column headers extracted from
// one source table for one category.
type ColumnSet []Column

// NewColumnSet builds a ColumnSet from raw headers, preserving source order
// and dropping duplicate headers and headers that normalize to nothing.
func NewColumnSet(headers []string) ColumnSet {
	seen := make(map[string]bool, len(headers))
	set := make(ColumnSet, 0, len(headers))

	for _, h := range headers {
		normalized := similarity.Normalize(h)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		set = append(set, Column{Header: h, Normalized: normalized})
	}

	return set
}

// Headers returns the raw headers in source order.
func (cs ColumnSet) Headers() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Header
	}
	return out
}
