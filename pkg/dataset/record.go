// Package dataset provides the keyed, structured representation of imported
// equipment data. A Snapshot maps each equipment category to its records,
// keyed by the category's natural key. Snapshots are produced by the import
// step or loaded from the project store, and are only ever mutated by a
// reconciler commit.
package dataset

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gridmap/gridmap/pkg/catalog"
)

// keySeparator joins the components of a composite natural key. The unit
// separator cannot appear in tabular source data.
const keySeparator = "\x1f"

// Record is one imported equipment record: a mapping from canonical property
// name to string value, tagged with its category. Warnings carry import-time
// data-quality findings (missing required values, conversion failures) that
// must not block diffing or committing the record.
type Record struct {
	Category string            `yaml:"category" json:"category"`
	Fields   map[string]string `yaml:"fields" json:"fields"`
	Warnings []string          `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// Field returns the value of the named property, or the empty string.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// Warn appends a data-quality warning to the record.
func (r *Record) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Copy returns a deep copy of the record.
func (r Record) Copy() Record {
	out := Record{Category: r.Category}
	if r.Fields != nil {
		out.Fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	if r.Warnings != nil {
		out.Warnings = append([]string(nil), r.Warnings...)
	}
	return out
}

// Key identifies a record within its category. It is the ordered tuple of
// the record's key-component values, trimmed and case-folded.
type Key string

// String returns a human-readable form of the key, with composite key
// components joined by "/".
func (k Key) String() string {
	return strings.ReplaceAll(string(k), keySeparator, "/")
}

// KeyOf computes the record's natural key from the category's key
// components. Key equality is case-insensitive and whitespace-trimmed.
func KeyOf(cat catalog.Category, r Record) Key {
	parts := make([]string, 0, 2)
	for _, p := range cat.KeyProperties() {
		parts = append(parts, foldValue(r.Field(p.Name)))
	}
	return Key(strings.Join(parts, keySeparator))
}

// foldValue trims and case-folds one key component. Unicode case folding
// handles headers exported with inconsistent casing beyond ASCII.
func foldValue(v string) string {
	return cases.Fold().String(strings.TrimSpace(v))
}
