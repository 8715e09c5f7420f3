package catalog

import (
	"strings"

	"github.com/gridmap/gridmap/pkg/errors"
)

// Property describes one field of an equipment category: its canonical name,
// whether source data must supply it, an optional default, the aliases it is
// known by in exported tables, and whether it participates in the category's
// natural key.
//
// Properties are immutable once loaded; mutate the catalog source and reload
// instead.
type Property struct {
	Name     string   `yaml:"name"`
	Required bool     `yaml:"required,omitempty"`
	Default  string   `yaml:"default,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty"`
	Key      bool     `yaml:"key,omitempty"`
}

// HasAlias reports whether the given string equals the property name or any
// declared alias, compared case-insensitively.
func (p Property) HasAlias(s string) bool {
	if strings.EqualFold(s, p.Name) {
		return true
	}
	for _, alias := range p.Aliases {
		if strings.EqualFold(s, alias) {
			return true
		}
	}
	return false
}

// validate checks the property descriptor for schema errors.
func (p Property) validate(category string) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewSchemaError(category, p.Name, "property name must not be empty")
	}
	for _, alias := range p.Aliases {
		if strings.TrimSpace(alias) == "" {
			return errors.NewSchemaError(category, p.Name, "alias must not be empty")
		}
	}
	return nil
}
