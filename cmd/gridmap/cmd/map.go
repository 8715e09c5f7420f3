package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridmap/gridmap/internal/cmd/output"
	"github.com/gridmap/gridmap/pkg/automapper"
	"github.com/gridmap/gridmap/pkg/logging"
)

var (
	mapCategory  string
	mapAccept    bool
	mapAcceptLow bool
	confirmFloor float64
	lowFloor     float64
)

var mapCmd = &cobra.Command{
	Use:   "map <file.csv>",
	Short: "Propose column-to-property mappings for a source file",
	Long: `Map reads a CSV export, compares its column headers against the
properties of one equipment category, and proposes an association per
column with a confidence tier.

The proposal is a preview; nothing is saved unless --accept is given, which
records the confirmed associations in the mapping configuration
(--accept-low also records low-confidence ones).`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVarP(&mapCategory, "category", "c", "", "equipment category to map against (required)")
	mapCmd.Flags().BoolVar(&mapAccept, "accept", false, "save confirmed associations to the mapping configuration")
	mapCmd.Flags().BoolVar(&mapAcceptLow, "accept-low", false, "with --accept, also save low-confidence associations")
	mapCmd.Flags().Float64Var(&confirmFloor, "confirm-threshold", automapper.DefaultConfirmThreshold,
		"minimum score for a confirmed association")
	mapCmd.Flags().Float64Var(&lowFloor, "low-threshold", automapper.DefaultLowThreshold,
		"minimum score for a low-confidence association")
	_ = mapCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(mapCmd)
}

func runMap(_ *cobra.Command, args []string) error {
	reader, err := openCatalog()
	if err != nil {
		return err
	}
	cat, err := reader.Category(mapCategory)
	if err != nil {
		return err
	}

	table, err := readTable(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadMappings()
	if err != nil {
		return err
	}

	proposal := automapper.Propose(table.ColumnSet(), cat,
		automapper.WithConfirmThreshold(confirmFloor),
		automapper.WithLowThreshold(lowFloor),
	)

	data := output.Data{
		Headers: []string{"Column", "Property", "Score", "Tier", "Note"},
	}
	for _, c := range proposal.Candidates {
		data.Rows = append(data.Rows, []string{
			c.Column.Header,
			c.Property,
			fmt.Sprintf("%.2f", c.Score),
			c.Tier.String(),
			candidateNote(cfg, c),
		})
	}
	if err := formatter().Format(os.Stdout, data); err != nil {
		return err
	}

	for _, name := range proposal.UnmetRequired {
		logging.Warn().
			Str("category", cat.Name).
			Str("property", name).
			Msg("Required property has no confirmed association")
	}

	if mapAccept {
		accepted := cfg.Apply(proposal, mapAcceptLow)
		if err := cfg.Save(mappingPath); err != nil {
			return err
		}
		logging.Info().
			Str("category", cat.Name).
			Int("accepted", accepted).
			Str("mapping", mappingPath).
			Msg("Saved mapping configuration")
	}

	return nil
}

// candidateNote annotates a candidate row with cross-category reuse of the
// same column and with demotions from conflict resolution.
func candidateNote(cfg mappingLookup, c automapper.Candidate) string {
	var notes []string
	if c.Demoted {
		notes = append(notes, "demoted: column or property claimed by a better match")
	}
	if used := cfg.UsedElsewhere(c.Column.Header, mapCategory); len(used) > 0 {
		notes = append(notes, "also mapped in "+strings.Join(used, ", "))
	}
	return strings.Join(notes, "; ")
}

type mappingLookup interface {
	UsedElsewhere(column, category string) []string
}
