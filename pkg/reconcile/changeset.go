// Package reconcile provides change detection and commit for project
// datasets. Diff compares the project's current snapshot against a freshly
// imported one and produces an auditable Changeset; Commit applies a
// Changeset atomically under the project's single-writer discipline.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/gridmap/gridmap/pkg/dataset"
)

// FieldChange represents a change to a specific non-key field.
type FieldChange struct {
	Field    string // canonical property name
	OldValue string // previous value
	NewValue string // incoming value
}

// Modification represents an update to an existing record.
type Modification struct {
	Key     dataset.Key
	Changes []FieldChange // field-level deltas, sorted by field name
}

// CategoryChanges holds the four disjoint key sets computed for one
// category. All key slices are sorted, so two runs over identical inputs
// produce byte-identical reports.
type CategoryChanges struct {
	Category  string
	Added     []dataset.Key
	Removed   []dataset.Key
	Modified  []Modification
	Unchanged []dataset.Key

	// Warnings carries data-quality findings attached to the incoming
	// category, such as natural-key collisions, so they stay visible in the
	// change report instead of being silently dropped.
	Warnings []string
}

// HasChanges returns true if the category has any additions, removals, or
// modifications.
func (c *CategoryChanges) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0 || len(c.Modified) > 0
}

// Changeset represents all changes between two snapshots. It is a pure
// computation result: neither input snapshot is mutated until the changeset
// is explicitly committed.
type Changeset struct {
	Categories []CategoryChanges // sorted by category name
	Summary    Summary

	// incoming is retained so Commit can upsert the added and modified
	// records the changeset refers to.
	incoming *dataset.Snapshot
}

// Summary provides summary statistics for a changeset.
type Summary struct {
	Added        int
	Removed      int
	Modified     int
	Unchanged    int
	Warnings     int
	TotalChanges int
}

// calculateSummary computes the summary for a set of category changes.
func calculateSummary(categories []CategoryChanges) Summary {
	var s Summary
	for _, c := range categories {
		s.Added += len(c.Added)
		s.Removed += len(c.Removed)
		s.Modified += len(c.Modified)
		s.Unchanged += len(c.Unchanged)
		s.Warnings += len(c.Warnings)
	}
	s.TotalChanges = s.Added + s.Removed + s.Modified
	return s
}

// HasChanges returns true if the changeset contains any changes.
func (cs *Changeset) HasChanges() bool {
	return cs.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (cs *Changeset) IsEmpty() bool {
	return cs.Summary.TotalChanges == 0
}

// Category returns the changes computed for one category, if present.
func (cs *Changeset) Category(name string) (CategoryChanges, bool) {
	for _, c := range cs.Categories {
		if c.Category == strings.ToLower(name) {
			return c, true
		}
	}
	return CategoryChanges{}, false
}

// String returns a human-readable summary of the changeset.
func (cs *Changeset) String() string {
	if cs.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	for _, c := range cs.Categories {
		if !c.HasChanges() {
			continue
		}
		var categoryParts []string
		if len(c.Added) > 0 {
			categoryParts = append(categoryParts, fmt.Sprintf("%d added", len(c.Added)))
		}
		if len(c.Modified) > 0 {
			categoryParts = append(categoryParts, fmt.Sprintf("%d modified", len(c.Modified)))
		}
		if len(c.Removed) > 0 {
			categoryParts = append(categoryParts, fmt.Sprintf("%d removed", len(c.Removed)))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", c.Category, strings.Join(categoryParts, ", ")))
	}

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, "; "), cs.Summary.TotalChanges)
}

// Report returns a detailed, line-oriented view of the changeset suitable
// for a pre-commit preview. Output is deterministic for identical inputs.
func (cs *Changeset) Report() string {
	var b strings.Builder
	b.WriteString(cs.String())
	b.WriteString("\n")

	for _, c := range cs.Categories {
		if !c.HasChanges() && len(c.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n", c.Category)

		for _, key := range c.Added {
			fmt.Fprintf(&b, "  + %s\n", key)
		}
		for _, m := range c.Modified {
			fmt.Fprintf(&b, "  ~ %s:\n", m.Key)
			for _, change := range m.Changes {
				fmt.Fprintf(&b, "      %s: %s -> %s\n", change.Field, change.OldValue, change.NewValue)
			}
		}
		for _, key := range c.Removed {
			fmt.Fprintf(&b, "  - %s\n", key)
		}
		for _, w := range c.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
	}

	return b.String()
}
