// Package catalog provides the property catalog for equipment categories.
// Each category declares the canonical fields imported records may carry,
// which fields are required, the aliases exported tables use for them, and
// which fields jointly form the category's natural key.
//
// The catalog ships embedded in the binary and can also be loaded from a
// user-supplied YAML file for project-specific categories.
//
// Example usage:
//
//	cat, err := catalog.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bus, err := cat.Category("bus")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range bus.Properties {
//	    fmt.Println(p.Name)
//	}
package catalog

import (
	"sort"
	"strings"

	"github.com/gridmap/gridmap/pkg/errors"
)

// Reader provides read-only access to the property catalog.
type Reader interface {
	// Categories returns all categories sorted by name.
	Categories() []Category

	// Category returns a category by name (case-insensitive).
	Category(name string) (Category, error)
}

// Compile-time interface check.
var _ Reader = (*catalog)(nil)

// catalog is the single concrete implementation of Reader. Categories are
// validated at load time and never mutated afterwards.
type catalog struct {
	categories map[string]Category // keyed by lower-cased name
}

// New creates a catalog from the embedded category definitions.
func New() (Reader, error) {
	return load(embeddedCategories())
}

// NewFromPath creates a catalog from a YAML file on disk. This is useful for
// projects that extend or replace the embedded categories.
func NewFromPath(path string) (Reader, error) {
	cats, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return load(cats)
}

// load validates categories and indexes them by lower-cased name.
func load(cats []Category) (Reader, error) {
	c := &catalog{categories: make(map[string]Category, len(cats))}

	for _, cat := range cats {
		if err := cat.Validate(); err != nil {
			return nil, err
		}
		lower := strings.ToLower(cat.Name)
		if _, ok := c.categories[lower]; ok {
			return nil, errors.NewSchemaError(cat.Name, "", "duplicate category name")
		}
		c.categories[lower] = cat
	}

	return c, nil
}

// Categories returns all categories sorted by name.
func (c *catalog) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Category returns a category by name (case-insensitive).
func (c *catalog) Category(name string) (Category, error) {
	if cat, ok := c.categories[strings.ToLower(name)]; ok {
		return cat, nil
	}
	return Category{}, errors.NewNotFoundError("category", name)
}
