package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/analysis"
	"github.com/pagesplit/pagesplit/internal/report"
	"github.com/pagesplit/pagesplit/internal/store"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		effectSize  float64
		alpha       float64
		targetPower float64
		oneTailed   bool
		save        bool
		label       string
		curvePath   string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <events.csv|events.xlsx>",
		Short: "Clean experiment events and evaluate the experiment",
		Long: `Load a table of experiment events, drop rows whose group disagrees with the
landing page served, drop users that appear more than once, and compare
conversion between old_page (control) and new_page (treatment).

Required columns: user_id, group (or ab), landing_page, converted.

Example:
  pagesplit analyze ab_data.csv --effect-size 0.001
  pagesplit analyze ab_data.csv --effect-size 0 --one-tailed --save --label homepage`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				choice, err := promptSettings(cmd.Flags().Changed("effect-size"), effectSize)
				if err != nil {
					return err
				}
				effectSize = choice.effectSize
				oneTailed = !choice.twoTailed
				if err := cmd.Flags().Set("one-tailed", fmt.Sprint(oneTailed)); err != nil {
					return err
				}
			} else if !cmd.Flags().Changed("effect-size") {
				return fmt.Errorf("--effect-size is required (use 0 to test for any difference)")
			}

			cfg, err := a.testConfig(cmd, alpha, oneTailed)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("power") {
				targetPower = a.cfg.Analysis.Power
			}

			req := analysis.Request{
				Path:        args[0],
				EffectSize:  effectSize,
				Config:      cfg,
				TargetPower: targetPower,
				Save:        save,
				Label:       label,
			}

			run := func(s store.Store) error {
				rep, err := analysis.New(s, a.logger).Run(cmd.Context(), req)
				if err != nil {
					return err
				}
				if err := report.WriteReport(cmd.OutOrStdout(), rep); err != nil {
					return err
				}
				if curvePath == "" {
					return nil
				}

				curve, err := rep.Curve(50)
				if err != nil {
					return err
				}
				if err := report.WritePowerCurvePNG(curvePath, curve, rep.TargetPower); err != nil {
					return fmt.Errorf("failed to write power curve: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Power curve written to %s\n", curvePath)
				return nil
			}

			if !save {
				return run(nil)
			}
			return a.withStore(func(s *store.SQLiteStore) error {
				return run(s)
			})
		},
	}

	cmd.Flags().Float64VarP(&effectSize, "effect-size", "e", 0, "hypothesized treatment minus control rate (required)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level (defaults to config)")
	cmd.Flags().Float64Var(&targetPower, "power", 0.8, "target power for the minimum sample size (defaults to config)")
	cmd.Flags().BoolVar(&oneTailed, "one-tailed", false, "run a one-tailed test")
	cmd.Flags().BoolVar(&save, "save", false, "store the summary in the database")
	cmd.Flags().StringVar(&label, "label", "", "label for the saved run")
	cmd.Flags().StringVar(&curvePath, "curve", "", "write a power curve PNG to this path")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the tail mode and effect size")

	return cmd
}
