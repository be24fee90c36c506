package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/report"
	"github.com/pagesplit/pagesplit/internal/stats"
)

func newPowerCmd(a *app) *cobra.Command {
	var (
		controlRate   float64
		treatmentRate float64
		effectSize    float64
		alpha         float64
		oneTailed     bool
		targetPower   float64
		total         float64
		curvePath     string
	)

	cmd := &cobra.Command{
		Use:   "power",
		Short: "Compute minimum sample size or achieved power",
		Long: `Solve for the minimum total sample size given a target power, or for the
achieved power given a total sample size. Exactly one of --target-power
and --total is required.

Examples:
  pagesplit power --control-rate 0.259 --treatment-rate 0.213 --effect-size 0 --target-power 0.8
  pagesplit power --control-rate 0.259 --treatment-rate 0.213 --effect-size 0 --total 1396`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.testConfig(cmd, alpha, oneTailed)
			if err != nil {
				return err
			}

			var target stats.PowerTarget
			if cmd.Flags().Changed("target-power") {
				target, err = stats.TargetPower(targetPower)
			} else {
				target, err = stats.TotalSampleSize(total)
			}
			if err != nil {
				return err
			}

			pp, err := stats.NewProportionPower(controlRate, treatmentRate, effectSize, cfg, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, ok := target.Power(); ok {
				n, err := pp.MinSampleSize()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Minimum total sample size: %.0f (%.4f)\n", n, n)

				if curvePath != "" {
					totals := make([]float64, 50)
					for i := range totals {
						totals[i] = 2 * n * float64(i+1) / float64(len(totals))
					}
					curve, err := pp.PowerCurve(totals)
					if err != nil {
						return err
					}
					if err := report.WritePowerCurvePNG(curvePath, curve, targetPower); err != nil {
						return fmt.Errorf("failed to write power curve: %w", err)
					}
					fmt.Fprintf(out, "Power curve written to %s\n", curvePath)
				}
				return nil
			}

			p, err := pp.Power()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Power at total sample size %.0f: %.4f\n", total, p)
			return nil
		},
	}

	cmd.Flags().Float64Var(&controlRate, "control-rate", 0, "control conversion rate")
	cmd.Flags().Float64Var(&treatmentRate, "treatment-rate", 0, "treatment conversion rate")
	cmd.Flags().Float64VarP(&effectSize, "effect-size", "e", 0, "hypothesized treatment minus control rate")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level (defaults to config)")
	cmd.Flags().BoolVar(&oneTailed, "one-tailed", false, "run a one-tailed test")
	cmd.Flags().Float64Var(&targetPower, "target-power", 0, "solve for the minimum total sample size at this power")
	cmd.Flags().Float64Var(&total, "total", 0, "solve for the power at this total sample size")
	cmd.Flags().StringVar(&curvePath, "curve", "", "with --target-power, write a power curve PNG to this path")

	for _, name := range []string{"control-rate", "treatment-rate", "effect-size"} {
		cmd.MarkFlagRequired(name)
	}
	cmd.MarkFlagsMutuallyExclusive("target-power", "total")
	cmd.MarkFlagsOneRequired("target-power", "total")

	return cmd
}
