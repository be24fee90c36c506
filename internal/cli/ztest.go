package cli

import (
	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/report"
	"github.com/pagesplit/pagesplit/internal/stats"
)

func newZTestCmd(a *app) *cobra.Command {
	var (
		control, treatment stats.ProportionSample
		effectSize         float64
		alpha              float64
		oneTailed          bool
	)

	cmd := &cobra.Command{
		Use:   "ztest",
		Short: "Run a two-proportion z-test on known rates",
		Long: `Run a two-proportion z-test from conversion rates and sample sizes.

Example:
  pagesplit ztest --control-rate 0.1 --control-count 1000 \
    --treatment-rate 0.105 --treatment-count 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.testConfig(cmd, alpha, oneTailed)
			if err != nil {
				return err
			}

			res, err := stats.ZTest(control, treatment, effectSize, cfg)
			if err != nil {
				return err
			}
			a.logger.Debug().Float64("z_score", res.ZScore).Float64("p_value", res.PValue).Msg("z-test")

			return report.WriteTest(cmd.OutOrStdout(), res, cfg)
		},
	}

	cmd.Flags().Float64Var(&control.Rate, "control-rate", 0, "control conversion rate")
	cmd.Flags().Float64Var(&control.Count, "control-count", 0, "control sample size")
	cmd.Flags().Float64Var(&treatment.Rate, "treatment-rate", 0, "treatment conversion rate")
	cmd.Flags().Float64Var(&treatment.Count, "treatment-count", 0, "treatment sample size")
	cmd.Flags().Float64VarP(&effectSize, "effect-size", "e", 0, "hypothesized treatment minus control rate")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level (defaults to config)")
	cmd.Flags().BoolVar(&oneTailed, "one-tailed", false, "run a one-tailed test")
	for _, name := range []string{"control-rate", "control-count", "treatment-rate", "treatment-count"} {
		cmd.MarkFlagRequired(name)
	}

	return cmd
}
