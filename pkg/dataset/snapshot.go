package dataset

import (
	"sort"
	"strings"

	"github.com/gridmap/gridmap/pkg/catalog"
)

// Snapshot is the project's structured dataset: a mapping from category name
// to records keyed by natural key. Within one snapshot, natural keys are
// unique per category.
//
// A Snapshot is a single mutable resource owned by its project. Diff
// computations treat snapshots as read-only; only a reconciler commit may
// mutate one, and callers must serialize commits against a given project.
type Snapshot struct {
	categories map[string]map[Key]Record
	warnings   map[string][]string
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		categories: make(map[string]map[Key]Record),
		warnings:   make(map[string][]string),
	}
}

// SetCategory replaces the category's records with the given records in
// source order. When two records share a natural key the later record wins,
// and the collision is recorded as a category warning so it is visible in
// change reports rather than silently dropped.
func (s *Snapshot) SetCategory(cat catalog.Category, records []Record) {
	name := categoryName(cat.Name)
	keyed := make(map[Key]Record, len(records))
	s.warnings[name] = nil

	for _, r := range records {
		key := KeyOf(cat, r)
		if _, exists := keyed[key]; exists {
			s.warnings[name] = append(s.warnings[name],
				"duplicate natural key "+key.String()+": later record in source order wins")
		}
		keyed[key] = r
	}

	s.categories[name] = keyed
}

// Set upserts a single record into its category.
func (s *Snapshot) Set(cat catalog.Category, r Record) {
	name := categoryName(cat.Name)
	if s.categories[name] == nil {
		s.categories[name] = make(map[Key]Record)
	}
	s.categories[name][KeyOf(cat, r)] = r
}

// Delete removes the record with the given key from a category. Deleting a
// missing key is a no-op.
func (s *Snapshot) Delete(category string, key Key) {
	delete(s.categories[categoryName(category)], key)
}

// Get returns the record with the given key in a category.
func (s *Snapshot) Get(category string, key Key) (Record, bool) {
	r, ok := s.categories[categoryName(category)][key]
	return r, ok
}

// Records returns the category's records keyed by natural key. Categories
// absent from the snapshot yield a nil map, never an error.
func (s *Snapshot) Records(category string) map[Key]Record {
	return s.categories[categoryName(category)]
}

// Keys returns the category's natural keys in sorted order, so change
// reports are byte-identical across runs regardless of map iteration order.
func (s *Snapshot) Keys(category string) []Key {
	records := s.Records(category)
	keys := make([]Key, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Categories returns the names of all categories present in the snapshot,
// sorted.
func (s *Snapshot) Categories() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of records in a category.
func (s *Snapshot) Len(category string) int {
	return len(s.categories[categoryName(category)])
}

// Warnings returns the data-quality warnings recorded for a category, such
// as natural-key collisions found while building it.
func (s *Snapshot) Warnings(category string) []string {
	return s.warnings[categoryName(category)]
}

// Copy returns a deep copy of the snapshot.
func (s *Snapshot) Copy() *Snapshot {
	out := NewSnapshot()
	for name, records := range s.categories {
		copied := make(map[Key]Record, len(records))
		for k, r := range records {
			copied[k] = r.Copy()
		}
		out.categories[name] = copied
	}
	for name, warns := range s.warnings {
		if warns != nil {
			out.warnings[name] = append([]string(nil), warns...)
		}
	}
	return out
}

// Equal reports whether two snapshots hold the same records per category.
// Warnings are not compared; they describe how a snapshot was built, not
// what it contains.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil {
		return false
	}
	if len(s.categories) != len(other.categories) {
		return false
	}
	for name, records := range s.categories {
		otherRecords, ok := other.categories[name]
		if !ok || len(records) != len(otherRecords) {
			return false
		}
		for k, r := range records {
			o, ok := otherRecords[k]
			if !ok || !fieldsEqual(r.Fields, o.Fields) {
				return false
			}
		}
	}
	return true
}

// fieldsEqual compares two field maps for exact equality.
func fieldsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// categoryName normalizes a category name for snapshot lookup.
func categoryName(name string) string {
	return strings.ToLower(name)
}
