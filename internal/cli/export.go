package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/report"
	"github.com/pagesplit/pagesplit/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved runs",
		Long: `Export saved analysis runs in CSV or JSON format.

Examples:
  pagesplit export --format csv > runs.csv
  pagesplit export --format json > runs.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid format: must be 'csv' or 'json'")
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				runs, err := s.ListRuns(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list runs: %w", err)
				}

				if format == "csv" {
					return report.WriteRunsCSV(cmd.OutOrStdout(), runs)
				}
				return report.WriteRunsJSON(cmd.OutOrStdout(), runs)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv or json)")
	return cmd
}
