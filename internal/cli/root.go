package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pagesplit/pagesplit/internal/config"
	"github.com/pagesplit/pagesplit/internal/logging"
	"github.com/pagesplit/pagesplit/internal/stats"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	cfgFile  string
	logLevel string
	dbPath   string

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pagesplit",
		Short: "Evaluate two-variant landing page experiments",
		Long: `pagesplit cleans a table of experiment events, compares conversion between
the control and treatment pages with a two-proportion z-test, and answers
sample size and power questions for the experiment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level defined in config")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "summary database path (overrides config)")

	root.AddCommand(
		newAnalyzeCmd(a),
		newZTestCmd(a),
		newPowerCmd(a),
		newSampleCmd(a),
		newRunsCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.dbPath != "" {
		cfg.Store.Path = a.dbPath
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.Logging, cmd.ErrOrStderr())
	return nil
}

// testConfig resolves alpha and tail mode: explicit flags win over config.
func (a *app) testConfig(cmd *cobra.Command, alpha float64, oneTailed bool) (stats.TestConfig, error) {
	cfg := a.cfg.Analysis
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = alpha
	}
	if cmd.Flags().Changed("one-tailed") {
		cfg.TwoTailed = !oneTailed
	}
	return stats.NewTestConfig(cfg.Alpha, cfg.TwoTailed)
}
