package catalog

import (
	"embed"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/gridmap/gridmap/pkg/errors"
)

//go:embed files/categories.yaml
var embeddedFS embed.FS

// file is the YAML document shape for a catalog file.
type file struct {
	Categories []Category `yaml:"categories"`
}

// embeddedCategories parses the category definitions compiled into the
// binary. The embedded file is validated by tests, so a parse failure here
// means a broken build rather than bad user input.
func embeddedCategories() []Category {
	data, err := embeddedFS.ReadFile("files/categories.yaml")
	if err != nil {
		panic("embedded catalog missing: " + err.Error())
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		panic("embedded catalog malformed: " + err.Error())
	}

	return f.Categories
}

// readFile parses a catalog YAML file from disk.
func readFile(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return f.Categories, nil
}
