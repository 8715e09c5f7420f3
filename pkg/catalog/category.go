package catalog

import (
	"strings"

	"github.com/gridmap/gridmap/pkg/errors"
)

// Category is one equipment type together with its ordered property catalog.
// Most categories are keyed by a single identifying property; scenario-
// qualified categories (study results) declare two or more key components.
type Category struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Properties  []Property `yaml:"properties"`
}

// Property returns the property with the given name (case-insensitive).
func (c Category) Property(name string) (Property, error) {
	for _, p := range c.Properties {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Property{}, errors.NewNotFoundError("property", name)
}

// KeyProperties returns the properties that jointly form the category's
// natural key, in declared order.
func (c Category) KeyProperties() []Property {
	var keys []Property
	for _, p := range c.Properties {
		if p.Key {
			keys = append(keys, p)
		}
	}
	return keys
}

// RequiredProperties returns the properties source data must supply.
func (c Category) RequiredProperties() []Property {
	var required []Property
	for _, p := range c.Properties {
		if p.Required {
			required = append(required, p)
		}
	}
	return required
}

// IsKeyProperty reports whether the named property is a key component.
func (c Category) IsKeyProperty(name string) bool {
	for _, p := range c.KeyProperties() {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// Validate checks the category for schema errors: an empty name, duplicate
// property names, a missing natural key, or malformed property descriptors.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.NewSchemaError(c.Name, "", "category name must not be empty")
	}
	if len(c.Properties) == 0 {
		return errors.NewSchemaError(c.Name, "", "category declares no properties")
	}

	seen := make(map[string]bool, len(c.Properties))
	for _, p := range c.Properties {
		if err := p.validate(c.Name); err != nil {
			return err
		}
		lower := strings.ToLower(p.Name)
		if seen[lower] {
			return errors.NewSchemaError(c.Name, p.Name, "duplicate property name")
		}
		seen[lower] = true
	}

	if len(c.KeyProperties()) == 0 {
		return errors.NewSchemaError(c.Name, "", "category declares no key component")
	}

	return nil
}
