// Package mapping provides the persisted, user-editable table of confirmed
// column→property associations across all equipment categories. The import
// step applies a Configuration to raw tabular data to build an incoming
// dataset snapshot; the auto-mapper only proposes entries, it never writes
// them here.
package mapping

import (
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/gridmap/gridmap/pkg/automapper"
	"github.com/gridmap/gridmap/pkg/errors"
	"github.com/gridmap/gridmap/pkg/similarity"
)

// Entry is one confirmed column→property association for a category.
type Entry struct {
	Category string `yaml:"category"`
	Column   string `yaml:"column"`
	Property string `yaml:"property"`
}

// Configuration is the full association table. Entries are unique per
// (category, normalized column); setting an existing pair replaces its
// property.
type Configuration struct {
	entries []Entry
}

// file is the YAML document shape for a persisted configuration.
type file struct {
	Mappings []Entry `yaml:"mappings"`
}

// New creates an empty configuration.
func New() *Configuration {
	return &Configuration{}
}

// Load reads a configuration from a YAML file. A missing file yields an
// empty configuration, so first runs need no setup.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	cfg := New()
	for _, e := range f.Mappings {
		cfg.Set(e.Category, e.Column, e.Property)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, sorted for stable diffs.
func (c *Configuration) Save(path string) error {
	f := file{Mappings: c.Entries()}

	data, err := yaml.MarshalWithOptions(f, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Set upserts an association. An existing entry for the same category and
// column (compared by normalized header) is replaced.
func (c *Configuration) Set(category, column, property string) {
	normalized := similarity.Normalize(column)
	for i, e := range c.entries {
		if e.Category == category && similarity.Normalize(e.Column) == normalized {
			c.entries[i] = Entry{Category: category, Column: column, Property: property}
			return
		}
	}
	c.entries = append(c.entries, Entry{Category: category, Column: column, Property: property})
}

// Remove deletes the association for a category and column, if present.
func (c *Configuration) Remove(category, column string) {
	normalized := similarity.Normalize(column)
	for i, e := range c.entries {
		if e.Category == category && similarity.Normalize(e.Column) == normalized {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Lookup returns the property a column maps to within a category. Columns
// are compared by normalized header, so "BUS_NAME" and "BusName" hit the
// same entry.
func (c *Configuration) Lookup(category, column string) (string, bool) {
	normalized := similarity.Normalize(column)
	for _, e := range c.entries {
		if e.Category == category && similarity.Normalize(e.Column) == normalized {
			return e.Property, true
		}
	}
	return "", false
}

// ForCategory returns the column→property associations for one category,
// keyed by normalized column header.
func (c *Configuration) ForCategory(category string) map[string]string {
	out := make(map[string]string)
	for _, e := range c.entries {
		if e.Category == category {
			out[similarity.Normalize(e.Column)] = e.Property
		}
	}
	return out
}

// UsedElsewhere returns the other categories in which a column header is
// already mapped. This is a pure query over the configuration; it performs
// no I/O.
func (c *Configuration) UsedElsewhere(column, category string) []string {
	normalized := similarity.Normalize(column)
	seen := make(map[string]bool)
	var categories []string

	for _, e := range c.entries {
		if e.Category == category || seen[e.Category] {
			continue
		}
		if similarity.Normalize(e.Column) == normalized {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}

	sort.Strings(categories)
	return categories
}

// Entries returns all associations sorted by category, then column.
func (c *Configuration) Entries() []Entry {
	out := append([]Entry(nil), c.entries...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// Len returns the number of associations in the configuration.
func (c *Configuration) Len() int {
	return len(c.entries)
}

// Apply merges an auto-mapper proposal into the configuration. Confirmed
// assignments are always taken; LowConfidence assignments only when
// acceptLow is set (after the caller has surfaced them for review). It
// returns the number of entries applied.
func (c *Configuration) Apply(proposal automapper.Proposal, acceptLow bool) int {
	applied := 0
	for _, candidate := range proposal.Assignments() {
		if candidate.Tier == automapper.Confirmed || (acceptLow && candidate.Tier == automapper.LowConfidence) {
			c.Set(proposal.Category, candidate.Column.Header, candidate.Property)
			applied++
		}
	}
	return applied
}
