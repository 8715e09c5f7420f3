package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridmap/gridmap/internal/cmd/output"
	"github.com/gridmap/gridmap/pkg/reconcile"
)

var diffCategory string

var diffCmd = &cobra.Command{
	Use:   "diff <file.csv>",
	Short: "Preview the changes an import would make to the project dataset",
	Long: `Diff imports a CSV export for one equipment category using the saved
mapping configuration and compares it against the project's current dataset.

The resulting changeset is a preview only; nothing is written. Use merge to
commit it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffCategory, "category", "c", "", "equipment category of the source file (required)")
	_ = diffCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	cs, _, cleanup, err := computeChangeset(cmd, args[0], diffCategory)
	if err != nil {
		return err
	}
	defer cleanup()

	if output.Format(outputFormat) == output.FormatTable {
		fmt.Fprint(os.Stdout, cs.Report())
		return nil
	}
	return formatter().Format(os.Stdout, cs)
}

// computeChangeset runs the shared import-and-diff pipeline for diff and
// merge. The returned cleanup closes the project store; the store stays open
// so merge can save the committed snapshot.
func computeChangeset(cmd *cobra.Command, path, category string) (*reconcile.Changeset, *mergeState, func(), error) {
	reader, err := openCatalog()
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := reader.Category(category)
	if err != nil {
		return nil, nil, nil, err
	}

	table, err := readTable(path)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadMappings()
	if err != nil {
		return nil, nil, nil, err
	}
	incoming, err := importSnapshot(table, cfg, cat)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := openStore(reader)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = store.Close() }

	current, err := store.Load(cmd.Context())
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	scoped, err := scopeToIncoming(reader, current, incoming)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	reconciler := reconcile.New(reader)
	cs, err := reconciler.Diff(scoped, incoming)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	return cs, &mergeState{
		store:      store,
		reconciler: reconciler,
		current:    current,
	}, cleanup, nil
}
