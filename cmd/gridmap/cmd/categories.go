package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridmap/gridmap/internal/cmd/output"
	"github.com/gridmap/gridmap/pkg/catalog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [name]",
	Short: "List equipment categories or show one category's properties",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		reader, err := openCatalog()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return showCategory(reader, args[0])
		}
		return listCategories(reader)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func listCategories(reader catalog.Reader) error {
	data := output.Data{
		Headers: []string{"Category", "Properties", "Key", "Required"},
	}
	for _, cat := range reader.Categories() {
		var keys []string
		for _, p := range cat.KeyProperties() {
			keys = append(keys, p.Name)
		}
		data.Rows = append(data.Rows, []string{
			cat.Name,
			strconv.Itoa(len(cat.Properties)),
			strings.Join(keys, ", "),
			strconv.Itoa(len(cat.RequiredProperties())),
		})
	}

	return formatter().Format(os.Stdout, data)
}

func showCategory(reader catalog.Reader, name string) error {
	cat, err := reader.Category(name)
	if err != nil {
		return err
	}

	data := output.Data{
		Headers: []string{"Property", "Required", "Key", "Default", "Aliases"},
	}
	for _, p := range cat.Properties {
		data.Rows = append(data.Rows, []string{
			p.Name,
			strconv.FormatBool(p.Required),
			strconv.FormatBool(p.Key),
			p.Default,
			strings.Join(p.Aliases, ", "),
		})
	}

	return formatter().Format(os.Stdout, data)
}
