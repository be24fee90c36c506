package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/report"
	"github.com/pagesplit/pagesplit/internal/store"
)

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				runs, err := s.ListRuns(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list runs: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs yet. Save one with 'pagesplit analyze <file> --save'.")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tLABEL\tSOURCE\tCONTROL\tTREATMENT\tP-VALUE\tSIGNIFICANT\tCREATED")
				for _, r := range runs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.4f\t%s\t%s\n",
						shortID(r.ID),
						r.Label,
						r.Source,
						report.FormatPercent(r.ControlRate),
						report.FormatPercent(r.TreatmentRate),
						r.PValue,
						yesNo(r.RejectNull),
						r.CreatedAt.Format("2006-01-02"),
					)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(newRunsShowCmd(a), newRunsDeleteCmd(a))
	return cmd
}

func newRunsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				r, err := findRun(cmd, s, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				tails := "two-tailed"
				if !r.TwoTailed {
					tails = "one-tailed"
				}
				fmt.Fprintf(out, "RUN: %s\n", r.ID)
				if r.Label != "" {
					fmt.Fprintf(out, "LABEL: %s\n", r.Label)
				}
				fmt.Fprintf(out, "SOURCE: %s\n", r.Source)
				fmt.Fprintf(out, "CREATED: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
				fmt.Fprintf(out, "ALPHA: %g (%s)   EFFECT SIZE: %g   TARGET POWER: %g\n",
					r.Alpha, tails, r.EffectSize, r.TargetPower)
				fmt.Fprintln(out)
				fmt.Fprintf(out, "control:   %d rows, %d conversions, %s\n",
					r.ControlRows, r.ControlConversions, report.FormatPercent(r.ControlRate))
				fmt.Fprintf(out, "treatment: %d rows, %d conversions, %s\n",
					r.TreatmentRows, r.TreatmentConversions, report.FormatPercent(r.TreatmentRate))
				fmt.Fprintln(out)
				fmt.Fprintf(out, "z-score: %.4f   p-value: %.4f   reject null: %s\n", r.ZScore, r.PValue, yesNo(r.RejectNull))
				fmt.Fprintf(out, "minimum total sample size: %.0f   power at %d: %.4f\n", r.MinSampleSize, r.Total(), r.Power)
				return nil
			})
		},
	}
}

func newRunsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *store.SQLiteStore) error {
				r, err := findRun(cmd, s, args[0])
				if err != nil {
					return err
				}
				if err := s.DeleteRun(cmd.Context(), r.ID); err != nil {
					return fmt.Errorf("failed to delete run: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", r.ID)
				return nil
			})
		},
	}
}

// findRun resolves a full ID or a unique ID prefix as printed by 'runs'.
func findRun(cmd *cobra.Command, s *store.SQLiteStore, id string) (*store.Run, error) {
	r, err := s.GetRun(cmd.Context(), id)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	runs, err := s.ListRuns(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	var match *store.Run
	for _, candidate := range runs {
		if strings.HasPrefix(candidate.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run prefix '%s' is ambiguous", id)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, fmt.Errorf("run '%s' not found", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
