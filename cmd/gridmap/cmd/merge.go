package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gridmap/gridmap/internal/project"
	"github.com/gridmap/gridmap/pkg/dataset"
	"github.com/gridmap/gridmap/pkg/logging"
	"github.com/gridmap/gridmap/pkg/reconcile"
)

var (
	mergeCategory string
	mergePrune    bool
)

// mergeState carries the opened store and loaded snapshot from the shared
// diff pipeline into the commit step.
type mergeState struct {
	store      *project.Store
	reconciler *reconcile.Reconciler
	current    *dataset.Snapshot
}

var mergeCmd = &cobra.Command{
	Use:   "merge <file.csv>",
	Short: "Import a source file and commit the resulting changeset",
	Long: `Merge imports a CSV export for one equipment category, diffs it
against the project's current dataset, and commits the changeset atomically.

Records present in the project but absent from the source are kept unless
--prune is given. If any pending record fails validation, nothing is
committed.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeCategory, "category", "c", "", "equipment category of the source file (required)")
	mergeCmd.Flags().BoolVar(&mergePrune, "prune", false, "delete project records absent from the source")
	_ = mergeCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cs, state, cleanup, err := computeChangeset(cmd, args[0], mergeCategory)
	if err != nil {
		return err
	}
	defer cleanup()

	if cs.IsEmpty() {
		logging.Info().Str("category", mergeCategory).Msg("No changes to commit")
		return nil
	}

	next, err := state.reconciler.Commit(state.current, cs, reconcile.WithPrune(mergePrune))
	if err != nil {
		return err
	}

	if err := state.store.Save(cmd.Context(), next, cs); err != nil {
		return err
	}

	logging.Info().
		Str("category", mergeCategory).
		Int("added", cs.Summary.Added).
		Int("modified", cs.Summary.Modified).
		Int("removed", cs.Summary.Removed).
		Bool("pruned", mergePrune).
		Msg("Committed changeset")

	return nil
}
