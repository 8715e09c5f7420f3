package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridmap/gridmap/internal/cmd/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the project's commit history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reader, err := openCatalog()
		if err != nil {
			return err
		}
		store, err := openStore(reader)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		commits, err := store.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		data := output.Data{
			Headers: []string{"Committed", "Category", "Added", "Modified", "Removed"},
		}
		for _, c := range commits {
			data.Rows = append(data.Rows, []string{
				c.CommittedAt.Format(time.RFC3339),
				c.Category,
				strconv.Itoa(c.Added),
				strconv.Itoa(c.Modified),
				strconv.Itoa(c.Removed),
			})
		}

		return formatter().Format(os.Stdout, data)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum number of commits to show")

	rootCmd.AddCommand(historyCmd)
}
