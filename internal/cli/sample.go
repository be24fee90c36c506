package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/prep"
)

func newSampleCmd(a *app) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "sample <input> <output.csv>",
		Short: "Write the earliest rows of an events file",
		Long: `Sort an events file by timestamp and write the first rows to a new CSV,
for quick trial runs against a large export.

Example:
  pagesplit sample ab_data.csv sample.csv --rows 5000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows <= 0 {
				return fmt.Errorf("--rows must be positive")
			}

			records, err := prep.Load(args[0])
			if err != nil {
				return err
			}
			if err := prep.WriteSample(args[1], records, rows); err != nil {
				return err
			}

			written := rows
			if len(records) < rows {
				written = len(records)
			}
			a.logger.Info().Str("output", args[1]).Int("rows", written).Msg("wrote sample")
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", written, args[1])
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 5000, "number of rows to keep")
	return cmd
}
