package reconcile

import (
	"sort"

	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/dataset"
	"github.com/gridmap/gridmap/pkg/errors"
)

// Reconciler computes and commits changesets between dataset snapshots. It
// consults the property catalog to exclude key fields from field-level
// deltas and to validate records before a commit.
//
// Diff is side-effect-free and safe to run concurrently against read-only
// snapshots; callers must serialize Commit invocations against a given
// project. Both operations are bounded by input size and run to completion.
type Reconciler struct {
	catalog catalog.Reader
}

// New creates a Reconciler backed by the given property catalog.
func New(cat catalog.Reader) *Reconciler {
	return &Reconciler{catalog: cat}
}

// Diff computes the changeset between the current and incoming snapshots.
// Categories absent from one snapshot are treated as having zero records.
// Neither snapshot is mutated. A category unknown to the property catalog is
// a schema error, fatal to this invocation.
func (r *Reconciler) Diff(current, incoming *dataset.Snapshot) (*Changeset, error) {
	var categories []CategoryChanges

	for _, name := range unionCategories(current, incoming) {
		cat, err := r.catalog.Category(name)
		if err != nil {
			return nil, errors.NewSchemaError(name, "", "category unknown to property catalog")
		}

		categories = append(categories, diffCategory(cat, current, incoming))
	}

	return &Changeset{
		Categories: categories,
		Summary:    calculateSummary(categories),
		incoming:   incoming,
	}, nil
}

// Commit applies a changeset to the current snapshot and returns the
// resulting snapshot. Added and modified records are upserted from the
// changeset's incoming snapshot; removed keys are deleted only when
// WithPrune(true) is set.
//
// Commit is all-or-nothing: every pending change is validated against the
// catalog before anything is applied, and on failure the caller keeps the
// original, unmodified snapshot alongside a CommitError naming the failing
// category.
func (r *Reconciler) Commit(current *dataset.Snapshot, cs *Changeset, opts ...CommitOption) (*dataset.Snapshot, error) {
	options := &commitOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if cs.incoming == nil {
		return current, errors.NewCommitError("", nil, errors.New("changeset was not produced by Diff"))
	}

	// Validate every pending change before touching anything.
	for _, c := range cs.Categories {
		cat, err := r.catalog.Category(c.Category)
		if err != nil {
			return current, errors.NewCommitError(c.Category, nil, err)
		}
		for _, key := range c.Added {
			if err := r.validatePending(cat, cs, key); err != nil {
				return current, errors.NewCommitError(c.Category, []string{key.String()}, err)
			}
		}
		for _, m := range c.Modified {
			if err := r.validatePending(cat, cs, m.Key); err != nil {
				return current, errors.NewCommitError(c.Category, []string{m.Key.String()}, err)
			}
		}
	}

	// Apply to a copy; the input snapshot stays untouched either way.
	result := current.Copy()
	for _, c := range cs.Categories {
		cat, _ := r.catalog.Category(c.Category)

		for _, key := range c.Added {
			record, _ := cs.incoming.Get(c.Category, key)
			result.Set(cat, record)
		}
		for _, m := range c.Modified {
			record, _ := cs.incoming.Get(c.Category, m.Key)
			result.Set(cat, record)
		}
		if options.pruneRemoved {
			for _, key := range c.Removed {
				result.Delete(c.Category, key)
			}
		}
	}

	return result, nil
}

// validatePending checks that a record referenced by the changeset exists in
// the incoming snapshot and is well-formed for its category. Records
// carrying import warnings are still committable; only structural problems
// fail a commit.
func (r *Reconciler) validatePending(cat catalog.Category, cs *Changeset, key dataset.Key) error {
	record, ok := cs.incoming.Get(cat.Name, key)
	if !ok {
		return errors.NewValidationError("key", key.String(), "record missing from incoming snapshot")
	}

	for field, value := range record.Fields {
		if _, err := cat.Property(field); err != nil {
			return errors.NewValidationError(field, value, "field unknown to category catalog")
		}
	}

	for _, p := range cat.KeyProperties() {
		if record.Field(p.Name) == "" {
			return errors.NewValidationError(p.Name, "", "key component must not be empty")
		}
	}

	return nil
}

// diffCategory computes the four disjoint key sets for one category.
func diffCategory(cat catalog.Category, current, incoming *dataset.Snapshot) CategoryChanges {
	name := cat.Name
	changes := CategoryChanges{Category: name}

	currentRecords := current.Records(name)
	incomingRecords := incoming.Records(name)

	for _, key := range incoming.Keys(name) {
		currentRecord, exists := currentRecords[key]
		if !exists {
			changes.Added = append(changes.Added, key)
			continue
		}

		deltas := diffFields(cat, currentRecord, incomingRecords[key])
		if len(deltas) > 0 {
			changes.Modified = append(changes.Modified, Modification{Key: key, Changes: deltas})
		} else {
			changes.Unchanged = append(changes.Unchanged, key)
		}
	}

	for _, key := range current.Keys(name) {
		if _, exists := incomingRecords[key]; !exists {
			changes.Removed = append(changes.Removed, key)
		}
	}

	if warns := incoming.Warnings(name); len(warns) > 0 {
		changes.Warnings = append([]string(nil), warns...)
	}

	return changes
}

// diffFields compares every non-key field of two records and returns the
// field-level deltas, sorted by field name.
func diffFields(cat catalog.Category, current, incoming dataset.Record) []FieldChange {
	fields := make(map[string]bool, len(current.Fields)+len(incoming.Fields))
	for f := range current.Fields {
		fields[f] = true
	}
	for f := range incoming.Fields {
		fields[f] = true
	}

	var deltas []FieldChange
	for f := range fields {
		if cat.IsKeyProperty(f) {
			continue
		}
		oldValue := current.Field(f)
		newValue := incoming.Field(f)
		if oldValue != newValue {
			deltas = append(deltas, FieldChange{Field: f, OldValue: oldValue, NewValue: newValue})
		}
	}

	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Field < deltas[j].Field })
	return deltas
}

// unionCategories returns the sorted union of category names present in
// either snapshot.
func unionCategories(current, incoming *dataset.Snapshot) []string {
	seen := make(map[string]bool)
	var names []string

	for _, name := range current.Categories() {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range incoming.Categories() {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}
