package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hclifford823/icecore-resampler-2018version/internal/classify"
	"github.com/hclifford823/icecore-resampler-2018version/internal/table"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "Show a dataset's columns and how they classify",
	Long: `Columns loads a dataset and prints each column with its inferred kind and
the role (Depth or Year) it would resample under, without producing any
artifacts. Useful for checking header spellings before a run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loaderOptions()
		if err != nil {
			return err
		}
		t, err := table.Load(resolveDataPath(args[0]), opt)
		if err != nil {
			return err
		}
		cls := classify.Classify(t.Names(), classify.AllRoles, cfg.Synonyms())

		fmt.Printf("%s: %d rows, %d columns\n", t.Name, t.Len(), len(t.Columns))
		for i := range t.Columns {
			c := &t.Columns[i]
			kind := "text"
			if c.Numeric {
				kind = "numeric"
			}
			fmt.Printf("  - %s: %s%s\n", c.Label(), kind, roleNote(cls, c.Name))
		}
		for _, amb := range cls.Ambiguous {
			fmt.Printf("  ⚠ %v\n", amb)
		}
		for _, miss := range cls.Missing {
			fmt.Printf("  ⚠ %v\n", miss)
		}
		return nil
	},
}

func roleNote(cls *classify.Result, col string) string {
	for role, cols := range cls.Matched {
		for i, name := range cols {
			if name != col {
				continue
			}
			if i == 0 {
				return fmt.Sprintf(" — %s axis", role)
			}
			return fmt.Sprintf(" — matches %s (resampled as dependent)", role)
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
